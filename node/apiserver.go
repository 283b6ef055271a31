package node

import (
	"fmt"
	"net/http"

	"github.com/hereditas-net/hereditas/api/server"
	"github.com/hereditas-net/hereditas/api/streaming"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

const defaultAPIPort = 8070

func (h *Hereditas) startAPIServer() {
	if viper.GetBool("api.disable") {
		// default is enabled API
		h.Log().Infof("API server is disabled")
		return
	}
	port := viper.GetInt("api.port")
	if port == 0 {
		port = defaultAPIPort
	}
	addr := fmt.Sprintf(":%d", port)
	h.Log().Infof("starting API server on %s", addr)

	http.Handle("/metrics", promhttp.HandlerFor(h.MetricsRegistry(), promhttp.HandlerOpts{}))

	go server.Run(addr, h)
	go func() {
		<-h.Ctx().Done()
		h.Log().Debugf("API server has been stopped")
	}()
}

func (h *Hereditas) startStreaming() {
	if !viper.GetBool("api.streaming_enable") {
		return
	}
	port := viper.GetInt("api.streaming_port")
	if port == 0 {
		port = defaultAPIPort + 1
	}
	streaming.Run(fmt.Sprintf(":%d", port), h)
}
