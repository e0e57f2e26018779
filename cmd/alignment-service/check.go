package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"jobmate/alignment-service/internal/employment"
)

var (
	checkInput    employment.PositionInput
	checkUserID   string
	checkSeedFile string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify a position without saving anything",
	Example: `  alignment-service check --program BSIT --position "web developer"
  alignment-service check --user 42 --position "Field Technician"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if checkSeedFile != "" {
			if _, err := a.seedFrom(cmd.Context(), checkSeedFile); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}

		st, err := a.service().CheckPosition(cmd.Context(), checkUserID, checkInput)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkUserID, "user", "cli", "graduate id; an existing record supplies the fields not given")
	f.StringVar(&checkInput.Position, "position", "", "job title")
	f.StringVar(&checkInput.Company, "company", "", "current company")
	f.StringVar(&checkInput.Program, "program", "", "program, e.g. BSIT or \"BS Information Technology\"")
	f.StringVar(&checkInput.EmploymentType, "employment-type", "", "e.g. Self-employed")
	f.StringVar(&checkInput.OJTCompany, "ojt-company", "", "company of the OJT placement")
	f.StringVar(&checkInput.DateStarted, "date-started", "", "start date, YYYY-MM-DD")
	f.IntVar(&checkInput.YearGraduated, "year-graduated", 0, "graduation year")
	f.StringVar(&checkSeedFile, "seed", "", "import reference titles from this file first")
	rootCmd.AddCommand(checkCmd)
}
