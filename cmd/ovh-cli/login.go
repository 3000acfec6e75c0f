package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ovhkit/ovh"
)

var (
	flagRules    []string
	flagRedirect string
	flagNoSave   bool
)

func init() {
	loginCmd.Flags().StringSliceVar(&flagRules, "rule", nil, "path pattern to request read/write access on (repeatable, default /*)")
	loginCmd.Flags().StringVar(&flagRedirect, "redirect", "", "URL the validation page redirects to")
	loginCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "print the consumer key instead of writing it to the config file")

	rootCmd.AddCommand(loginCmd, logoutCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Request a new consumer key",
	Long: `login asks the API for a new consumer key and prints the validation URL.
The key stays pendingValidation until you open that URL in a browser; once
validated it is used for every subsequent signed call.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}

		patterns := flagRules
		if len(patterns) == 0 {
			patterns = []string{"/*"}
		}
		var rules []ovh.AccessRule
		for _, p := range patterns {
			rules = append(rules, ovh.ReadWriteRules(p)...)
		}

		cred, err := c.RequestCredential(context.Background(), rules, flagRedirect)
		if err != nil {
			return err
		}

		fmt.Println("consumer key:", cred.ConsumerKey)
		fmt.Println("state:       ", cred.State)
		fmt.Println("validate at: ", cred.ValidationURL)

		if flagNoSave {
			return nil
		}
		path := ovh.DefaultConfigPath()
		if err := ovh.SaveConsumerKey(path, endpointName(), cred.ConsumerKey); err != nil {
			return fmt.Errorf("save consumer key to %s: %w", path, err)
		}
		fmt.Println("saved to:    ", path)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the current consumer key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}
		if c.ConsumerKey() == "" {
			return fmt.Errorf("no consumer key configured")
		}
		if err := c.Logout(context.Background()); err != nil {
			return err
		}
		path := ovh.DefaultConfigPath()
		if err := ovh.SaveConsumerKey(path, endpointName(), ""); err != nil {
			return fmt.Errorf("clear consumer key in %s: %w", path, err)
		}
		fmt.Println("logged out")
		return nil
	},
}
