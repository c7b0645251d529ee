// Command letters trains, tests and runs the handwritten letter classifier.
//
// Usage:
//
//	letters -train emnist-train.csv -test emnist-test.csv train
//	letters -weights mlp.bin -test emnist-test.csv test
//	letters -mode cross_validation -folds 5 -train emnist-train.csv test
//	letters -weights mlp.bin -images samples.csv classify
//	letters -config letters.yaml -save-config letters.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/FlavioCFOliveira/letternet/letternet"
	"github.com/pkg/errors"
)

type options struct {
	configPath string
	saveConfig string
	trainPath  string
	testPath   string
	weights    string
	images     string
	save       string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("letters: ")

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flag.StringVar(&opts.saveConfig, "save-config", "", "write the effective configuration to this file")
	flag.StringVar(&opts.trainPath, "train", "", "training dataset (CSV)")
	flag.StringVar(&opts.testPath, "test", "", "test dataset (CSV)")
	flag.StringVar(&opts.weights, "weights", "", "weight file to load")
	flag.StringVar(&opts.images, "images", "", "images to classify (CSV)")
	flag.StringVar(&opts.save, "save", "", "save the final weights to this file")

	network := flag.String("network", "", "network type: matrix or graph")
	layers := flag.Int("layers", -1, "number of hidden layers")
	mode := flag.String("mode", "", "test mode: weights or cross_validation")
	fraction := flag.Float64("fraction", 0, "share of the test dataset to evaluate")
	folds := flag.Int("folds", 0, "cross-validation folds")
	epochs := flag.Int("epochs", -1, "training epochs")
	rate := flag.Float64("lr", 0, "learning rate")
	noSave := flag.Bool("no-autosave", false, "do not save weights after each epoch")
	dir := flag.String("weights-dir", "", "directory for weights saved after each epoch")
	metrics := flag.String("metrics", "", "CSV file receiving per-epoch metrics")
	seed := flag.Uint64("seed", 0, "weight initialization seed, 0 for random")
	flag.Parse()

	cfg := letternet.DefaultConfiguration()
	if opts.configPath != "" {
		var err error
		if cfg, err = letternet.LoadConfiguration(opts.configPath); err != nil {
			log.Fatal(err)
		}
	}

	// flags override the file
	flag.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "network":
			cfg.NetworkType, err = letternet.ParseNetworkType(*network)
		case "layers":
			cfg.HiddenLayers = *layers
		case "mode":
			cfg.TestMode, err = letternet.ParseTestMode(*mode)
		case "fraction":
			cfg.EvalFraction = *fraction
		case "folds":
			cfg.Folds = *folds
		case "epochs":
			cfg.Epochs = *epochs
		case "lr":
			cfg.LearningRate = *rate
		case "no-autosave":
			cfg.SaveEachEpoch = !*noSave
		case "weights-dir":
			cfg.WeightsDir = *dir
		case "metrics":
			cfg.MetricsLog = *metrics
		case "seed":
			cfg.Seed = *seed
		}
		if err != nil {
			log.Fatal(err)
		}
	})

	m := letternet.New(letternet.WithLogger(log.New(os.Stderr, "letternet: ", log.LstdFlags)))
	if err := m.SetConfiguration(cfg); err != nil {
		log.Fatal(err)
	}
	if opts.saveConfig != "" {
		if err := cfg.Save(opts.saveConfig); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("configuration written to %s\n", opts.saveConfig)
	}
	if opts.weights != "" {
		d, err := m.LoadWeights(opts.weights)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("weights: %d hidden layers, epoch %d, accuracy %d%%\n", d.Settings.HiddenLayers, d.Epoch, d.Accuracy)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, cmd := range flag.Args() {
		if err := run(ctx, m, opts, cmd); err != nil {
			log.Fatal(err)
		}
	}

	if opts.save != "" {
		if err := m.SaveWeights(opts.save, 0, 0); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("weights written to %s\n", opts.save)
	}
}

func run(ctx context.Context, m *letternet.Model, opts options, cmd string) error {
	switch cmd {
	case "train":
		return train(ctx, m, opts)
	case "test":
		return test(ctx, m, opts)
	case "classify":
		return classify(m, opts)
	}
	return errors.Errorf("unknown command %q", cmd)
}

// console prints task events.
type console struct {
	letternet.BaseListener
}

func (console) OnDatasetLoaded(kind letternet.DatasetKind, path string, size int) {
	fmt.Printf("%s dataset %s: %d images\n", kind, path, size)
}

func (console) OnEpochEnd(epoch int, loss float64) {
	fmt.Printf("Epoch %d, Loss: %.4f\n", epoch, loss)
}

func (console) OnTestEnd(m letternet.Metrics) {
	fmt.Printf("Accuracy: %.4f (%d%%)\n", m.Accuracy, m.AccuracyPercent)
	fmt.Printf("Precision: %.4f\n", m.Precision)
	fmt.Printf("Recall: %.4f\n", m.Recall)
	fmt.Printf("F-score: %.4f\n", m.FScore)
	fmt.Printf("Time: %s\n", m.Elapsed)
}

func (console) OnError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func load(m *letternet.Model, kind letternet.DatasetKind, path string) error {
	if path == "" {
		return errors.Wrapf(letternet.ErrMissingDataset, "%s dataset", kind)
	}
	if kind == letternet.TrainDataset {
		return m.LoadTrainDataset(path, console{}).Wait()
	}
	return m.LoadTestDataset(path, console{}).Wait()
}

// wait stops the task when ctx is done and returns the task error.
func wait(ctx context.Context, t *letternet.Task, stopTask func()) error {
	select {
	case <-t.Done():
	case <-ctx.Done():
		stopTask()
	}
	return t.Wait()
}

func train(ctx context.Context, m *letternet.Model, opts options) error {
	if err := load(m, letternet.TrainDataset, opts.trainPath); err != nil {
		return err
	}
	if err := load(m, letternet.TestDataset, opts.testPath); err != nil {
		return err
	}
	t, err := m.Train(console{})
	if err != nil {
		return err
	}
	return wait(ctx, t, m.StopTrain)
}

func test(ctx context.Context, m *letternet.Model, opts options) error {
	if m.Configuration().TestMode == letternet.CrossValidation {
		if err := load(m, letternet.TrainDataset, opts.trainPath); err != nil {
			return err
		}
	} else if err := load(m, letternet.TestDataset, opts.testPath); err != nil {
		return err
	}
	t, err := m.Test(console{})
	if err != nil {
		return err
	}
	return wait(ctx, t, m.StopTest)
}

func classify(m *letternet.Model, opts options) error {
	images, err := letternet.ReadDataset(opts.images)
	if err != nil {
		return err
	}
	var b strings.Builder
	for i, img := range images {
		r, err := m.Classify(img.Pixels)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "%d: %c (labelled %c)\n", i, r, 'A'+rune(img.Label-1))
	}
	fmt.Print(b.String())
	return nil
}
