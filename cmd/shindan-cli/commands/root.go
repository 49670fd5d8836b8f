package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"shindan-scraper/lib/configutil"
	"shindan-scraper/lib/restyutil"
	"shindan-scraper/lib/serviceutil"
	"shindan-scraper/lib/shindan"
	"shindan-scraper/lib/telemetry"

	"github.com/antzucaro/matchr"
	"github.com/spf13/cobra"
)

type Config struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

var cfg Config
var domainFlag *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "shindan-cli",
	Short: "shindan-cli runs shindanmaker.com shindans from the command line.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
		cfg, _ = configutil.ReadConfig[Config]("config.json5")
	},
}

func init() {
	domainFlag = rootCmd.PersistentFlags().StringP(
		"domain", "d", "",
		"The shindanmaker domain to target (jp, en, cn, kr, th).",
	)
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false,
		"Enable debug logs and http exchange dumps under .dev/resty/shindan-cli.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveDomain() shindan.Domain {
	tag := cfg.Domain
	if *domainFlag != "" {
		tag = *domainFlag
	}
	if tag == "" {
		return shindan.DomainEN
	}

	domain, err := shindan.ParseDomain(tag)
	if err != nil {
		var mostSimilarity float64
		var mostSimilar shindan.Domain
		for _, candidate := range shindan.Domains {
			similarity := matchr.JaroWinkler(strings.ToLower(tag), string(candidate), false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = candidate
			}
		}
		serviceutil.Fatal(
			fmt.Sprintf("unknown domain %q, did you mean %q?", tag, mostSimilar),
			err,
		)
	}
	return domain
}

// resolves the display name submitted with a shindan, a positional
// argument wins over the config.json5 default.
func resolveName(args []string) string {
	if len(args) >= 2 {
		return args[1]
	}
	if cfg.Name != "" {
		return cfg.Name
	}
	serviceutil.Fatal(
		"no display name given",
		fmt.Errorf("pass a [name] argument or set \"name\" in config.json5"),
	)
	return ""
}

func newClient() *shindan.Client {
	client, err := shindan.NewClient(shindan.ClientOptions{
		Domain: resolveDomain(),
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize shindan client", err)
	}
	if *verbose {
		client.SetInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/shindan-cli"))
	}
	return client
}
