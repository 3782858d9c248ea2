package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/birdayz/kchain"
	"github.com/birdayz/kchain/kdesc"
	"github.com/birdayz/kchain/kmonitor"
	"github.com/birdayz/kchain/ktransform"
	klog "github.com/birdayz/kchain/pkg/log"
	"github.com/birdayz/kchain/sinks"
	"github.com/birdayz/kchain/sinks/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
)

// options defines flags for the `run` command.
type options struct {
	descriptorPath   string
	taskName         string
	subtaskIndex     int
	subtaskCount     int
	samplingInterval int
	kafkaBrokers     []string
	kafkaTopic       string
	metricsAddr      string
	verbose          bool
}

func newOptions() *options {
	return &options{
		subtaskCount:     1,
		samplingInterval: 10,
	}
}

func (o *options) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.descriptorPath, "descriptor", "d", "", "Path of the YAML chain descriptor")
	cmd.Flags().StringVar(&o.taskName, "task-name", "", "Task name handed to every transformation")
	cmd.Flags().IntVar(&o.subtaskIndex, "subtask-index", o.subtaskIndex, "Index of this parallel instance")
	cmd.Flags().IntVar(&o.subtaskCount, "subtask-count", o.subtaskCount, "Number of parallel instances")
	cmd.Flags().IntVar(&o.samplingInterval, "sampling-interval", o.samplingInterval, "Records between two statistics reports of a link")
	cmd.Flags().StringSliceVar(&o.kafkaBrokers, "kafka-brokers", nil, "Produce to Kafka instead of stdout (comma separated seed brokers)")
	cmd.Flags().StringVar(&o.kafkaTopic, "kafka-topic", "", "Kafka topic to produce to")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Log every record processed by every link")
	_ = cmd.MarkFlagRequired("descriptor")
}

func (o *options) validate() error {
	if o.subtaskCount < 1 || o.subtaskIndex < 0 || o.subtaskIndex >= o.subtaskCount {
		return fmt.Errorf("invalid subtask %d of %d", o.subtaskIndex, o.subtaskCount)
	}
	if len(o.kafkaBrokers) > 0 && o.kafkaTopic == "" {
		return errors.New("--kafka-topic is required with --kafka-brokers")
	}
	return nil
}

// run reads lines from in, pushes them through the chain and writes the
// results to out or Kafka.
func (o *options) run(ctx context.Context, log *slog.Logger, in io.Reader, out io.Writer) error {
	desc, err := kdesc.Load(o.descriptorPath)
	if err != nil {
		return err
	}

	monitors := []kmonitor.Monitor{kmonitor.Slog(log, slog.LevelDebug)}
	if o.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom, err := kmonitor.NewPrometheus(reg)
		if err != nil {
			return err
		}
		monitors = append(monitors, prom)

		stopMetrics, err := serveMetrics(o.metricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	sink, closeClient, err := o.newSink(out)
	if err != nil {
		return err
	}
	defer closeClient()

	opts := []kchain.Option{
		kchain.WithLog(log),
		kchain.WithTaskName(o.taskName),
		kchain.WithSubtask(o.subtaskIndex, o.subtaskCount),
		kchain.WithSamplingInterval(o.samplingInterval),
		kchain.WithMonitor(kmonitor.Multi(monitors...)),
	}
	if o.verbose {
		opts = append(opts, kchain.WithInterceptors(ktransform.LoggingInterceptor(log)))
	}
	opts = append(opts, kchain.WithFaultHandler(func(_ context.Context, fault *kchain.Fault, rec kchain.Record) {
		log.Error("Record failed", "link", fault.Link, "phase", fault.Phase, "bytes", rec.BinaryLength())
	}))

	app, err := kchain.New(desc, sink, opts...)
	if err != nil {
		return err
	}
	return app.Run(ctx, kchain.LineSource(in))
}

func (o *options) newSink(out io.Writer) (kchain.TerminalSink, func(), error) {
	if len(o.kafkaBrokers) == 0 {
		return sinks.NewWriter(out), func() {}, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(o.kafkaBrokers...),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return kafka.NewSink(client, o.kafkaTopic), client.Close, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) (func(), error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", "error", err)
		}
	}()
	log.Info("Serving metrics", "addr", lis.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func newCmdRun() *cobra.Command {
	o := newOptions()

	command := &cobra.Command{
		Use:   "run",
		Short: "Run a chain over the lines read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			level := slog.LevelInfo
			if o.verbose {
				level = slog.LevelDebug
			}
			log := klog.New(level)

			err := o.run(cmd.Context(), log, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Chain failed", "error", err)
			}
			return err
		},
	}
	o.addFlags(command)
	return command
}

func newCmdRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "kchain",
		Short:         "Run chains of fused transformations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCmdRun())
	return root
}
