package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lattiq/outreach"
	"github.com/lattiq/outreach/internal/config"
	"github.com/lattiq/outreach/internal/logger"
)

// batchLogFile receives batch logs unless another output is configured.
const batchLogFile = "emails.log"

var (
	configPath   string
	logLevel     string
	logOutput    string
	dryRun       bool
	recipientsIn string
	group        string
	recipient    string
)

var rootCmd = &cobra.Command{
	Use:           "outreach",
	Short:         "Send personalised emails to a list of recipients",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Send the email to every recipient in a CSV file",
	Args:  cobra.NoArgs,
	RunE:  runBatch,
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send the email to a single recipient",
	Args:  cobra.NoArgs,
	RunE:  runSend,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), outreach.GetVersionInfo().String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./outreach.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "logging-level", "l", "", "logging level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "", "log destination: stderr, stdout or a file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log messages instead of sending them")

	batchCmd.Flags().StringVarP(&recipientsIn, "recipients_file", "r", "", "CSV file with a header row and an Email column")
	batchCmd.Flags().StringVarP(&group, "volunteer", "v", "", "only send to recipients assigned to this volunteer")
	_ = batchCmd.MarkFlagRequired("recipients_file")

	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "recipient email address")
	_ = sendCmd.MarkFlagRequired("recipient")

	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger. defaultOutput replaces
// the configured output when neither the flag nor the config chose one.
func setup(defaultOutput string) (outreach.Config, *logger.Logger, func() error, error) {
	if logLevel != "" {
		if _, err := logger.ParseLevel(logLevel); err != nil {
			return outreach.Config{}, nil, nil, err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return outreach.Config{}, nil, nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	switch {
	case logOutput != "":
		cfg.Logging.Output = logOutput
	case defaultOutput != "" && cfg.Logging.Output == outreach.DefaultConfig().Logging.Output:
		cfg.Logging.Output = defaultOutput
	}

	w, closeLog, err := logger.Open(cfg.Logging.Output)
	if err != nil {
		return outreach.Config{}, nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, w)
	if err != nil {
		_ = closeLog()
		return outreach.Config{}, nil, nil, err
	}

	return cfg, log, closeLog, nil
}

// loadCampaign reads the sender, content and replacement records.
func loadCampaign(client *outreach.Client, cfg outreach.Config, log *logger.Logger) (*outreach.Campaign, error) {
	campaign, err := client.LoadCampaign()
	var configErr *outreach.ConfigurationError
	switch {
	case err == nil:
		return campaign, nil
	case errors.Is(err, outreach.ErrInvalidSender):
		log.Error().Str("file", cfg.Files.SenderInfo).Msg("Sender email is not valid")
	case errors.As(err, &configErr):
		log.Error().Str("file", configErr.Source).Err(err).Msg("Failed to load email records")
	default:
		log.Error().Err(err).Msg("Failed to load email records")
	}
	return nil, err
}

func newClient(cfg outreach.Config, log *logger.Logger) (*outreach.Client, error) {
	opts := []outreach.Option{outreach.WithLogger(log.Logger)}
	if dryRun {
		opts = append(opts, outreach.WithDryRun())
	}
	return outreach.New(cfg, opts...)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(batchLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	log = log.WithComponent("batch")

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	campaign, err := loadCampaign(client, cfg, log)
	if err != nil {
		return err
	}

	campaign.Recipients, err = client.LoadRecipients(recipientsIn)
	if errors.Is(err, outreach.ErrNoRecipients) {
		log.Error().Str("file", recipientsIn).Msg("No recipients found after reading .csv file.")
		return err
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to read recipients")
		return err
	}
	campaign.Group = group

	summary, err := client.Run(cmd.Context(), campaign)
	var noMatch *outreach.NoMatchError
	if errors.As(err, &noMatch) {
		log.Error().Msgf("No volunteer with name [%s] found.", noMatch.Group)
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("Batch aborted")
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d sent, %d failed, %d skipped\n", summary.Sent, summary.Failed, summary.Skipped)
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup("")
	if err != nil {
		return err
	}
	defer closeLog()

	log = log.WithComponent("send")

	if !outreach.IsValidAddress(recipient) {
		log.Error().Str("to", recipient).Msg("Recipient email is not valid")
		return fmt.Errorf("recipient email %q is not valid", recipient)
	}

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	campaign, err := loadCampaign(client, cfg, log)
	if err != nil {
		return err
	}
	campaign.Recipients = []outreach.Recipient{{Email: recipient, Row: 1}}

	summary, err := client.Run(cmd.Context(), campaign)
	if err != nil {
		log.Error().Err(err).Msg("Email not sent")
		return err
	}
	if summary.Sent == 0 {
		log.Error().Str("to", recipient).Msg("Email not sent")
	}

	return nil
}
