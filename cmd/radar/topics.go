package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/techradar-io/radar-api/internal/service"
	"gopkg.in/yaml.v3"
)

// topicFile is the YAML layout accepted by "topics import":
//
//	topics:
//	  - Go
//	  - Kubernetes
type topicFile struct {
	Topics []string `yaml:"topics"`
}

func newTopicsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage the topic catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Add every topic listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := readTopicFile(args[0])
			if err != nil {
				return err
			}

			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			result, err := app.topicService.BulkCreateTopics(cmd.Context(), names)
			if result != nil {
				printBulkResult(cmd.OutOrStdout(), result)
			}
			return err
		},
	})
	return cmd
}

func readTopicFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open topic file: %w", err)
	}
	defer f.Close()

	return parseTopicFile(f)
}

func parseTopicFile(r io.Reader) ([]string, error) {
	var file topicFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("topic file is empty")
		}
		return nil, fmt.Errorf("failed to parse topic file: %w", err)
	}
	if len(file.Topics) == 0 {
		return nil, errors.New("topic file lists no topics")
	}
	return file.Topics, nil
}

func printBulkResult(w io.Writer, result *service.BulkResult) {
	fmt.Fprintf(w, "created %d topic(s), %d failed\n", len(result.Created), len(result.Failed))
	for _, t := range result.Created {
		fmt.Fprintf(w, "  + %s\n", t.Name)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(w, "  - %q: %s\n", f.Name, f.Reason)
	}
}
