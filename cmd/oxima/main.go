/*
 * main.go, part of oxima.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * oxima is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rmera/oxima"
	"github.com/rmera/oxima/conf"
	"github.com/rmera/oxima/model"
	"github.com/rmera/oxima/oxplot"
	"github.com/rmera/oxima/store"
	"github.com/rmera/oxima/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	cfgFile    string
	format     string
	preset     string
	xsfOut     string
	plotOut    string
	prettyJSON bool

	logger *zap.Logger
	cfg    *conf.Config
)

var rootCmd = &cobra.Command{
	Use:   "oxima",
	Short: "oxima - oxidation-state predictions for crystal structures",
	Long: `oxima reads a crystal structure, reduces it to its primitive cell,
featurizes its metal sites and predicts their oxidation states.

Results come out as a JSON bundle with every coordinate view, the
per-site predictions and explanations, and an XSF block of the
primitive cell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("can't initialize logging: %w", err)
		}
		cfg, err = conf.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("can't load configuration: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

//buildPipeline wires the reference model behind the pipeline with the
//configured limits.
func buildPipeline() (*oxima.Pipeline, *store.Store, error) {
	samples, err := cfg.Samples(preset)
	if err != nil {
		return nil, nil, err
	}
	m := model.DefaultModel()
	st := store.New(cfg.Store.Dir)
	pipe := &oxima.Pipeline{
		Adapter:      oxima.NewAdapter(model.NewFeaturizer(), m, m, samples),
		Records:      st,
		Log:          logger,
		MaxAtoms:     cfg.MaxNumberOfAtoms,
		OverlapTol:   cfg.OverlapTolerance,
		SymPrec:      cfg.SymPrec,
		ModelVersion: cfg.ModelVersion,
	}
	return pipe, st, nil
}

//emit prints the bundle and writes the optional side outputs.
func emit(out *oxima.OutputBundle) error {
	var buf []byte
	var err error
	if prettyJSON {
		buf, err = json.MarshalIndent(out, "", "  ")
	} else {
		buf, err = json.Marshal(out)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	if xsfOut != "" {
		if err := os.WriteFile(xsfOut, []byte(out.XSFStructure), 0644); err != nil {
			return err
		}
	}
	if plotOut != "" {
		pred := &oxima.PredictionBundle{
			Predictions:  out.Predictions,
			Labels:       out.PredictionLabels,
			Explanations: out.Explanations,
		}
		if err := oxplot.Confidence(pred, "Oxidation-state confidence", plotOut); err != nil {
			return err
		}
	}
	return nil
}

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the pipeline on a structure file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		pipe, _, err := buildPipeline()
		if err != nil {
			return err
		}
		out, err := pipe.Process(string(content), format)
		if err != nil {
			return err
		}
		return emit(out)
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example <name>",
	Short: "Run the pipeline on a named example structure from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stored, ok := cfg.Examples[args[0]]
		if !ok {
			return fmt.Errorf("unknown example %q", args[0])
		}
		pipe, st, err := buildPipeline()
		if err != nil {
			return err
		}
		content, err := st.StructureContent(stored)
		if err != nil {
			return err
		}
		out, err := pipe.Process(content, "cif")
		if err != nil {
			return err
		}
		return emit(out)
	},
}

var precomputedCmd = &cobra.Command{
	Use:   "precomputed <name>",
	Short: "Assemble the output of a stored structure from its cached results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, _, err := buildPipeline()
		if err != nil {
			return err
		}
		out, err := pipe.FromPrecomputed(args[0])
		if err != nil {
			return err
		}
		return emit(out)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, st, err := buildPipeline()
		if err != nil {
			return err
		}
		return web.NewServer(pipe, st, cfg, logger).Run()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (default oxima.yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "samples", "", "approximation preset for explanations (very_rough, rough, default, fine, very_fine)")
	processCmd.Flags().StringVarP(&format, "format", "f", "cif", "structure file format")
	for _, c := range []*cobra.Command{processCmd, exampleCmd, precomputedCmd} {
		c.Flags().StringVar(&xsfOut, "xsf", "", "also write the XSF block to this file")
		c.Flags().StringVar(&plotOut, "plot", "", "also write a confidence plot PNG with this base name")
		c.Flags().BoolVar(&prettyJSON, "pretty", false, "indent the JSON output")
	}
	rootCmd.AddCommand(processCmd, exampleCmd, precomputedCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
