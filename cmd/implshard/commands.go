package implshard

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/arthur-debert/implshard/internal/version"
	"github.com/arthur-debert/implshard/pkg/cobrax/topics"
	"github.com/arthur-debert/implshard/pkg/config"
	"github.com/arthur-debert/implshard/pkg/host"
	"github.com/arthur-debert/implshard/pkg/index"
	"github.com/arthur-debert/implshard/pkg/logging"
	"github.com/arthur-debert/implshard/pkg/output"
	"github.com/arthur-debert/implshard/pkg/registry"
	"github.com/arthur-debert/implshard/pkg/shards"
	"github.com/arthur-debert/implshard/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "implshard",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topic-based help from the embedded topics directory
	helpTopics, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, helpTopics, topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

func newLoadCmd() *cobra.Command {
	var (
		order        string
		seed         uint64
		installAfter int
		format       string
		formats      []string
	)

	cmd := &cobra.Command{
		Use:   "load <dir>",
		Short: MsgLoadShort,
		Long:  MsgLoadLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			logger := logging.GetLogger("cmd.load")

			overrides := map[string]interface{}{}
			flags := cmd.Flags()
			if flags.Changed("order") {
				overrides["host.order"] = order
			}
			if flags.Changed("seed") {
				overrides["host.seed"] = seed
			}
			if flags.Changed("install-after") {
				overrides["host.install_after"] = installAfter
			}
			if flags.Changed("format") {
				overrides["output.format"] = format
			}
			if flags.Changed("formats") {
				overrides["shards.formats"] = formats
			}

			cfg, err := config.LoadWithOverrides(root, overrides)
			if err != nil {
				return err
			}
			plan, outFormat, shardFormats, err := loadSettings(cfg)
			if err != nil {
				return err
			}

			loaded, err := shards.NewLoader(shardFormats...).LoadDir(os.DirFS(root), ".")
			if err != nil {
				return fmt.Errorf(MsgErrLoad, root, err)
			}

			hub := registry.New[types.Payload]()
			sink := index.New()
			report, err := host.Run(cmd.Context(), hub, loaded, sink, plan)
			if err != nil {
				return err
			}

			logger.Info().
				Int("shards", len(loaded)).
				Int("deliveries", sink.Count()).
				Msg("Load rendered")

			renderer, err := output.New(outFormat)
			if err != nil {
				return err
			}
			return renderer.Render(cmd.OutOrStdout(), output.Report{
				Summary: sink.Summary(),
				Host:    report,
			})
		},
	}

	cmd.Flags().StringVar(&order, "order", "", MsgFlagOrder)
	cmd.Flags().Uint64Var(&seed, "seed", 0, MsgFlagSeed)
	cmd.Flags().IntVar(&installAfter, "install-after", host.InstallLast, MsgFlagInstallAfter)
	cmd.Flags().StringVarP(&format, "format", "f", "", MsgFlagFormat)
	cmd.Flags().StringSliceVar(&formats, "formats", nil, MsgFlagFormats)

	_ = cmd.RegisterFlagCompletionFunc("order", fixedCompletion("listed", "reversed", "shuffled"))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion("auto", "term", "text", "json", "markdown"))

	return cmd
}

// loadSettings resolves the typed settings a load needs
func loadSettings(cfg *config.Config) (host.Plan, output.Format, []shards.Format, error) {
	plan, err := cfg.Plan()
	if err != nil {
		return host.Plan{}, 0, nil, err
	}
	outFormat, err := cfg.OutputFormat()
	if err != nil {
		return host.Plan{}, 0, nil, err
	}
	shardFormats, err := cfg.ShardFormats()
	if err != nil {
		return host.Plan{}, 0, nil, err
	}
	return plan, outFormat, shardFormats, nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: MsgInspectShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := shards.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, shard := range decoded {
				fmt.Fprintf(out, MsgInspectShard, shard.ID(), len(shard.Payload), shard.Origin)
				if len(shard.Payload) == 0 {
					fmt.Fprint(out, MsgInspectEmpty)
					continue
				}
				for _, impl := range shard.Payload {
					fmt.Fprintf(out, MsgInspectImpl, shards.PlainText(impl.Text))
					if len(impl.Generics) > 0 {
						fmt.Fprintf(out, MsgInspectGeneric, strings.Join(impl.Generics, ", "))
					}
					if len(impl.Where) > 0 {
						fmt.Fprintf(out, MsgInspectWhere, strings.Join(impl.Where, ", "))
					}
				}
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
