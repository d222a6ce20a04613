package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattiq/outreach/internal/config"
	"github.com/lattiq/outreach/internal/records"
)

var (
	outPath string

	senderName     string
	senderClass    string
	senderEmail    string
	senderPassword string

	emailSubject  string
	emailTemplate string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the JSON records a run reads",
}

var initSenderCmd = &cobra.Command{
	Use:   "sender",
	Short: "Write the sender information file",
	Args:  cobra.NoArgs,
	RunE:  runInitSender,
}

var initEmailCmd = &cobra.Command{
	Use:   "email",
	Short: "Write the email information file",
	Args:  cobra.NoArgs,
	RunE:  runInitEmail,
}

func init() {
	initCmd.PersistentFlags().StringVarP(&outPath, "output", "o", "", "file to write (default from config)")

	initSenderCmd.Flags().StringVarP(&senderName, "name", "n", "", "name of the sender")
	initSenderCmd.Flags().StringVarP(&senderClass, "class_year", "c", "", "class year of the sender")
	initSenderCmd.Flags().StringVarP(&senderEmail, "email", "e", "", "email of the sender")
	initSenderCmd.Flags().StringVarP(&senderPassword, "app_password", "p", "", "app password of the sender")
	for _, f := range []string{"name", "class_year", "email", "app_password"} {
		_ = initSenderCmd.MarkFlagRequired(f)
	}

	initEmailCmd.Flags().StringVarP(&emailSubject, "subject", "s", "", "subject text of the email")
	initEmailCmd.Flags().StringVarP(&emailTemplate, "template_file_path", "f", "", "path to the email body (.html or .md) template")
	_ = initEmailCmd.MarkFlagRequired("subject")
	_ = initEmailCmd.MarkFlagRequired("template_file_path")

	initCmd.AddCommand(initSenderCmd)
	initCmd.AddCommand(initEmailCmd)
}

func runInitSender(cmd *cobra.Command, args []string) error {
	path := outPath
	if path == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path = cfg.Files.SenderInfo
	}

	if err := records.WriteSender(path, senderName, senderClass, senderEmail, senderPassword); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runInitEmail(cmd *cobra.Command, args []string) error {
	path := outPath
	if path == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		path = cfg.Files.EmailInfo
	}

	if err := records.WriteContent(path, emailSubject, emailTemplate); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
