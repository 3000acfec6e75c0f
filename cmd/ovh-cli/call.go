package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ovhkit/ovh"
)

var flagData string

func init() {
	postCmd.Flags().StringVarP(&flagData, "data", "d", "", "JSON request body")
	putCmd.Flags().StringVarP(&flagData, "data", "d", "", "JSON request body")

	rootCmd.AddCommand(getCmd, postCmd, putCmd, deleteCmd, timeCmd)
}

var getCmd = &cobra.Command{
	Use:   "get PATH",
	Short: "Signed GET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}
		return printResult(c.Get(context.Background(), args[0]))
	},
}

var postCmd = &cobra.Command{
	Use:   "post PATH",
	Short: "Signed POST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}
		body, err := parseData()
		if err != nil {
			return err
		}
		return printResult(c.Post(context.Background(), args[0], body))
	},
}

var putCmd = &cobra.Command{
	Use:   "put PATH",
	Short: "Signed PUT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}
		body, err := parseData()
		if err != nil {
			return err
		}
		return printResult(c.Put(context.Background(), args[0], body))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete PATH",
	Short: "Signed DELETE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}
		return printResult(c.Delete(context.Background(), args[0]))
	},
}

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Print the API server's clock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}
		t, err := c.Time(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(t.UTC().Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

// parseData keeps --data opaque: the raw JSON goes on the wire as given.
func parseData() (any, error) {
	if flagData == "" {
		return nil, nil
	}
	if !json.Valid([]byte(flagData)) {
		return nil, fmt.Errorf("--data is not valid JSON")
	}
	return json.RawMessage(flagData), nil
}

func printResult(res *ovh.Response, err error) error {
	if err != nil {
		return err
	}
	if len(res.Body) > 0 {
		var buf []byte
		if buf, err = json.MarshalIndent(json.RawMessage(res.Body), "", "  "); err != nil {
			buf = res.Body
		}
		os.Stdout.Write(buf)
		fmt.Println()
	}
	if !res.OK {
		return fmt.Errorf("api returned status %d", res.StatusCode)
	}
	return nil
}
