package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Manage stored scenes",
}

var sceneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scenes, newest first",
	Args:  cobra.NoArgs,
	RunE:  sceneList,
}

var sceneShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a scene snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  sceneShow,
}

var sceneExportCmd = &cobra.Command{
	Use:   "export [id] [file]",
	Short: "Write a scene snapshot to a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE:  sceneExport,
}

var sceneDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored scene",
	Args:  cobra.ExactArgs(1),
	RunE:  sceneDelete,
}

func init() {
	sceneListCmd.Flags().IntVarP(&sceneLimit, "limit", "n", 20, "maximum scenes to list (0 for all)")

	sceneCmd.AddCommand(sceneListCmd)
	sceneCmd.AddCommand(sceneShowCmd)
	sceneCmd.AddCommand(sceneExportCmd)
	sceneCmd.AddCommand(sceneDeleteCmd)
}

func sceneList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	scenes, err := db.ListScenes(cmd.Context(), sceneLimit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSAVED\tBANDS\tTETHERS\tCLOCK")
	for _, s := range scenes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%ss\n",
			s.ID, s.Name, humanize.Time(s.CreatedAt),
			humanize.Comma(int64(s.Bands)), humanize.Comma(int64(s.Tethers)),
			humanize.FtoaWithDigits(s.Clock, 1))
	}
	return tw.Flush()
}

func sceneShow(cmd *cobra.Command, args []string) error {
	data, err := loadSceneJSON(cmd, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func sceneExport(cmd *cobra.Command, args []string) error {
	data, err := loadSceneJSON(cmd, args[0])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}
	return nil
}

func sceneDelete(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.DeleteScene(cmd.Context(), args[0])
}

func loadSceneJSON(cmd *cobra.Command, id string) ([]byte, error) {
	db, err := openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	_, snap, err := db.LoadScene(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	return snap.MarshalIndent()
}
