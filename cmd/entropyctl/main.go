// cmd/entropyctl/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/entropy-complex/internal/config"
	"github.com/tamzrod/entropy-complex/internal/csrng"
	"github.com/tamzrod/entropy-complex/internal/entropy"
	"github.com/tamzrod/entropy-complex/internal/mubi"
	"github.com/tamzrod/entropy-complex/internal/registers"
	"github.com/tamzrod/entropy-complex/internal/registers/devmem"
	"github.com/tamzrod/entropy-complex/internal/registers/modbus"
)

// blockWindowSize is the size of each block's register window.
const blockWindowSize = 0x1000

type options struct {
	backend string
	bridge  string
	timeout time.Duration
	profile string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "entropyctl",
		Short:         "Drive the entropy complex: bring-up, attestation, and software random generation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.backend, "backend", "devmem",
		"register access backend: devmem, modbus, or sim")
	root.PersistentFlags().StringVar(&opts.bridge, "bridge", "",
		"bring-up bridge endpoint (host:port) for the modbus backend")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second,
		"bridge transport timeout")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "",
		"optional YAML profile overlay")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"debug logging")

	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newUninstantiateCmd(opts))
	return root
}

// setup builds the bus, overlay, and orchestrator for one invocation.
func setup(opts *options) (*entropy.Complex, func() error, error) {
	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var (
		bus    registers.Bus
		closer = func() error { return nil }
	)
	switch opts.backend {
	case "sim":
		bus = entropy.NewSimBus()
	case "devmem":
		b, err := devmem.Open(
			devmem.Range{Base: entropy.BaseCsrng, Size: blockWindowSize},
			devmem.Range{Base: entropy.BaseEntropySrc, Size: blockWindowSize},
			devmem.Range{Base: entropy.BaseEDN0, Size: blockWindowSize},
			devmem.Range{Base: entropy.BaseEDN1, Size: blockWindowSize},
		)
		if err != nil {
			return nil, nil, err
		}
		bus, closer = b, b.Close
	case "modbus":
		b, err := modbus.Dial(opts.bridge, entropy.BaseCsrng, opts.timeout)
		if err != nil {
			return nil, nil, err
		}
		bus, closer = b, b.Close
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", opts.backend)
	}

	cpxOpts := []entropy.Option{entropy.WithLogger(log)}
	if opts.profile != "" {
		cfg, err := config.Load(opts.profile)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		if err := config.Validate(cfg); err != nil {
			_ = closer()
			return nil, nil, err
		}
		cpxOpts = append(cpxOpts, entropy.WithOverrides(&cfg.Entropy))
	}

	return entropy.New(bus, cpxOpts...), closer, nil
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Stop, reconfigure, and start the whole entropy complex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cpx, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer()
			return cpx.Init()
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Attest that the hardware still carries the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cpx, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer()
			if err := cpx.Check(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "entropy complex configuration verified")
			return nil
		},
	}
}

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		words int
		fips  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random words over the software path (instantiate, generate, uninstantiate)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if words <= 0 {
				return errors.New("--words must be > 0")
			}
			if csrng.Blocks(words) > csrng.MaxGenerateBlocks {
				return fmt.Errorf("--words %d exceeds the %d-block request cap", words, csrng.MaxGenerateBlocks)
			}

			cpx, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer()

			if err := cpx.Instantiate(mubi.HardenedFalse, nil); err != nil {
				return err
			}
			buf := make([]uint32, words)
			fipsCheck := mubi.HardenedFalse
			if fips {
				fipsCheck = mubi.HardenedTrue
			}
			genErr := cpx.Generate(nil, buf, fipsCheck)
			if err := cpx.Uninstantiate(); err != nil && genErr == nil {
				genErr = err
			}
			if genErr != nil {
				return genErr
			}

			out := cmd.OutOrStdout()
			for i, w := range buf {
				sep := " "
				if i%4 == 3 || i == len(buf)-1 {
					sep = "\n"
				}
				fmt.Fprintf(out, "%08x%s", w, sep)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&words, "words", 4, "number of 32-bit words to generate")
	cmd.Flags().BoolVar(&fips, "fips", false, "fail if any block is not FIPS-compatible")
	return cmd
}

func newUninstantiateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstantiate",
		Short: "Tear down the software DRBG instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cpx, closer, err := setup(opts)
			if err != nil {
				return err
			}
			defer closer()
			return cpx.Uninstantiate()
		},
	}
}
