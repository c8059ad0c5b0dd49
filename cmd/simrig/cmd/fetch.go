package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/simrigproject/simrig/internal/common/logging"
	"github.com/simrigproject/simrig/internal/webcache"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch url",
	Short: "Fetch a url through the read-through cache and print the result",
	Long: `
Fetch a url through the read-through cache and print the JSON result.

Fresh enough entries are served from the store without network access, so
repeated fetches are cheap; this also serves to warm the cache before a
batch run.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.ConfigureCliLogging()
		config := loadConfig()

		path, err := config.Cache.ExpandedPath()
		if err != nil {
			return err
		}
		config.Cache.Path = path

		cache := webcache.New(config.Cache)
		data, err := cache.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		content, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return errors.WithStack(err)
		}
		fmt.Println(string(content))
		return nil
	},
}
