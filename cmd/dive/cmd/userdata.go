package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/dive/internal/store"
)

var userdataCmd = &cobra.Command{
	Use:   "userdata",
	Short: "Manage learned boosts and bigrams",
	Long: `Manage what dive has learned from you.

Every accepted word is boosted, and every word that followed another is
recorded as a bigram. Both are kept in the user-data database and applied
on top of the dictionary each time dive starts.`,
}

var userdataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the learned data as YAML",
	Args:  cobra.NoArgs,
	RunE:  runUserdataExport,
}

var userdataImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load learned data from a YAML export",
	Long: `Load learned data from a YAML export, replacing what is stored.

With --merge the counts are added to the stored ones instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runUserdataImport,
}

var userdataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all learned data",
	Args:  cobra.NoArgs,
	RunE:  runUserdataClear,
}

func init() {
	rootCmd.AddCommand(userdataCmd)
	userdataCmd.AddCommand(userdataExportCmd, userdataImportCmd, userdataClearCmd)

	userdataExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	userdataImportCmd.Flags().Bool("merge", false, "add to the stored counts instead of replacing them")
	userdataClearCmd.Flags().Bool("yes", false, "do not ask for confirmation")
}

// openUserStore opens the configured user-data database.
func openUserStore() (*store.Store, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return store.Open(s.Paths.Database)
}

func runUserdataExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	st, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := st.Load(cmd.Context())
	if err != nil {
		return err
	}
	write := func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encoding user data: %w", err)
		}
		return enc.Close()
	}
	if output == "" {
		return write(cmd.OutOrStdout())
	}
	return writeFile(output, write)
}

func runUserdataImport(cmd *cobra.Command, args []string) error {
	merge, _ := cmd.Flags().GetBool("merge")

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading user data: %w", err)
	}
	var in store.UserData
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parsing user data: %w", err)
	}

	st, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if merge {
		stored, err := st.Load(ctx)
		if err != nil {
			return err
		}
		in = mergeUserData(stored, in)
	}
	if err := st.Save(ctx, in); err != nil {
		return err
	}

	boosts, bigrams, err := st.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d boosted words and %d bigrams in %s\n", boosts, bigrams, st.Path())
	return nil
}

// mergeUserData adds the counts of b to a copy of a.
func mergeUserData(a, b store.UserData) store.UserData {
	out := store.UserData{
		Boosts:  make(map[string]int, len(a.Boosts)+len(b.Boosts)),
		Bigrams: make(map[string]map[string]int, len(a.Bigrams)+len(b.Bigrams)),
	}
	for _, src := range []store.UserData{a, b} {
		for word, n := range src.Boosts {
			out.Boosts[word] += n
		}
		for prev, nexts := range src.Bigrams {
			if out.Bigrams[prev] == nil {
				out.Bigrams[prev] = make(map[string]int, len(nexts))
			}
			for next, n := range nexts {
				out.Bigrams[prev][next] += n
			}
		}
	}
	return out
}

func runUserdataClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("this forgets every boost and bigram\nUse --yes to confirm")
	}

	st, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", st.Path())
	return nil
}
