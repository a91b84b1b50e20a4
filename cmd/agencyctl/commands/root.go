package commands

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Agencia-api/pkg/config"
	"github.com/jhoicas/Agencia-api/pkg/logger"
)

var (
	cfg      *config.Config
	log      *logger.Logger
	logLevel string
)

// Execute arma el árbol de comandos y lo ejecuta.
func Execute() error {
	root := &cobra.Command{
		Use:           "agencyctl",
		Short:         "Herramientas operativas de la API de agencias",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			level := c.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			cfg = c
			log = logger.New(logger.Config{Env: c.App.Env, Level: level, App: "agencyctl"})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "nivel de log (por defecto LOG_LEVEL)")

	root.AddCommand(migrateCmd(), seedCmd())
	return root.Execute()
}
