package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"quizify/internal/config"
	"quizify/internal/server"
)

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizify",
		Short:         "Web front end for the Quizify music trivia game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(*cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := config.Default()
	fs.StringVarP(&cfg.Bind, "bind", "b", defaults.Bind, "address to bind to (env: QUIZIFY_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", defaults.Port, "port to listen on (env: QUIZIFY_PORT)")
	fs.StringVar(&cfg.BackendURL, "backend-url", defaults.BackendURL, "base URL of the game backend (env: QUIZIFY_BACKEND_URL)")
	fs.StringVar(&cfg.HubURL, "hub-url", defaults.HubURL, "websocket URL of the game hub (env: QUIZIFY_HUB_URL)")
	fs.StringVar(&cfg.SearchURL, "search-url", defaults.SearchURL, "base URL of the music search proxy (env: QUIZIFY_SEARCH_URL)")
	fs.StringVar(&cfg.CMSURL, "cms-url", defaults.CMSURL, "base URL of the content delivery API (env: QUIZIFY_CMS_URL)")
	fs.StringVar(&cfg.DefaultLocale, "locale", defaults.DefaultLocale, "default content locale (env: QUIZIFY_LOCALE)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres URL for the optional game-history store (env: QUIZIFY_DATABASE_URL)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", defaults.Verbose, "log every HTTP request (env: QUIZIFY_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func main() {
	log.SetFlags(0)
	cfg := &config.Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
