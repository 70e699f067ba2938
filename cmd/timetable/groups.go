package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable/internal/timetable"
)

func newGroupsCmd(root *rootOptions) *cobra.Command {
	var subjectsPath string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the groups of a subject sheet in scheduling order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subjects, err := loadSubjects(subjectsPath, root.logger)
			if err != nil {
				return err
			}
			for _, group := range timetable.Groups(subjects) {
				credit := timetable.TotalCredit(timetable.SubjectsForGroup(subjects, group))
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", group, credit)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&subjectsPath, "subjects", "s", "", "subject sheet exported as CSV")
	_ = cmd.MarkFlagRequired("subjects")
	return cmd
}
