package errors

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/flags"
	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	svcErr "github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
)

const (
	FlagsSaveToFile = "save-to-file"
)

// Error is how an error code is listed.
type Error struct {
	Code     string `json:"code"`
	Reason   string `json:"reason"`
	Absorbed bool   `json:"absorbed"`
}

// NewListCommand creates a new command for listing the errors a run can report.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the errors a run can report",
		Long:  "List the errors a run can report. Absorbed errors are logged and never fail a scenario.",
		Run:   runList,
	}

	cmd.Flags().String(FlagsSaveToFile, "", "File path to save the list of errors in JSON format to (i.e. 'errors.json')")

	return cmd
}

// List returns every error, sorted by code.
func List() []Error {
	errors := svcErr.Errors()

	// Sort errors by code
	sort.SliceStable(errors, func(i, j int) bool {
		return errors[i].Code < errors[j].Code
	})

	var list []Error
	for _, err := range errors {
		list = append(list, Error{
			Code:     svcErr.CodeStr(err.Code),
			Reason:   err.Reason,
			Absorbed: err.Absorbed,
		})
	}
	return list
}

// Render writes the errors as a table.
func Render(w io.Writer, list []Error) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Code", "Reason", "Absorbed"})
	for _, err := range list {
		table.Append([]string{err.Code, err.Reason, strconv.FormatBool(err.Absorbed)})
	}
	table.Render()
}

func runList(cmd *cobra.Command, _ []string) {
	filePath := flags.MustGetString(FlagsSaveToFile, cmd.Flags())
	list := List()

	// Write to stdout if filepath is not defined, otherwise save to the specified file
	if filePath == "" {
		Render(os.Stdout, list)
		return
	}

	listJson, err := json.MarshalIndent(list, "", "\t")
	if err != nil {
		glog.Fatalf("failed to marshal errors: %v", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		glog.Fatalf("failed to create file: %v", err)
	}
	defer file.Close()

	if _, err = file.Write(listJson); err != nil {
		glog.Fatalf("failed to write to file: %v", err)
	}
	glog.Infof("Errors saved to %s", file.Name())
}
