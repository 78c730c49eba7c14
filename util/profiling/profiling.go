package profiling

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/talkcoin/talkminer/infrastructure/logger"
	"github.com/talkcoin/talkminer/infrastructure/metrics"
	"github.com/talkcoin/talkminer/util/panics"
)

// NewServeMux returns the handlers served by Start: pprof under
// /debug/pprof/ and the miner's Prometheus metrics on /metrics. Any other
// path redirects to the pprof index.
func NewServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", http.RedirectHandler("/debug/pprof/", http.StatusSeeOther))
	return mux
}

// Start serves NewServeMux on port in the background.
func Start(port string, log *logger.Logger) {
	spawn := panics.GoroutineWrapperFunc(log)
	spawn("profiling.Start", func() {
		listenAddr := net.JoinHostPort("", port)
		log.Infof("Profile server listening on %s", listenAddr)
		log.Error(http.ListenAndServe(listenAddr, NewServeMux()))
	})
}
