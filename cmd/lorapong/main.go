package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"

	"github.com/coreos/go-systemd/daemon"
	"github.com/hatstand/lorapong"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var metricsAddr = flag.String("metrics", ":9100", "Address to serve prometheus metrics on")

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	latch := lorapong.NewLatch()
	radio, notify := lorapong.NewRadio(latch)
	defer radio.Close()

	if err := radio.Init(lorapong.BuildConfig()); err != nil {
		sugar.Fatalf("Failed to initialise radio: %v", err)
	}

	daemon.SdNotify(false, daemon.SdNotifyReady)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			sugar.Warnf("Metrics server failed: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		cancel()
	}()

	engine := lorapong.NewEngine(radio, latch, notify, sugar, os.Stdout)
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Fatalf("Radio engine failed: %v", err)
	}
}
