package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"serpco/internal/seed"
)

func seedCmd() *cobra.Command {
	var (
		dir    string
		sample bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import categories, tags, companies and posts from JSON files",
		Long: "Reads categories.json, tags.json and entities.json from --dir (default\n" +
			"SEED_DIR) and inserts the records that do not exist yet. The run report\n" +
			"is printed as JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, reg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer reg.Close()

			if dir == "" {
				dir = cfg.SeedDir
			}
			var d *seed.Dataset
			if sample {
				d, err = seed.Sample()
			} else {
				d, err = seed.LoadDir(dir)
			}
			if err != nil {
				return err
			}

			report, err := seed.New(db).Run(cmd.Context(), d)
			if err != nil {
				return err
			}
			purgeCache(cmd.Context(), cfg)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory holding the seed files")
	cmd.Flags().BoolVar(&sample, "sample", false, "import the built-in sample dataset instead of --dir")
	return cmd
}
