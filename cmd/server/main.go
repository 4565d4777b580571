// The server binary accepts a single concurrent fault-injection run at a
// time against a throttling upstream, adaptively searching for its
// sustainable concurrency.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"

	"github.com/faultrun/server/api"
	"github.com/faultrun/server/config"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "could not parse env args")

	dedicatedMetricsPort := *config.MetricsAddr != ""
	if dedicatedMetricsPort {
		prometheusx.MustStartPrometheus(*config.MetricsAddr)
	}

	svc := api.NewService(*config.UpstreamURL)
	router := api.NewRouter(svc, !dedicatedMetricsPort)

	log.Printf("listening on %s, upstream %s", *config.ListenAddr, *config.UpstreamURL)
	rtx.Must(http.ListenAndServe(*config.ListenAddr, router), "failed to listen")
}
