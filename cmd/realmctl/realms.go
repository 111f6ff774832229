package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/realm-engine/pkg/realm"
)

var defaultTiers = []string{"Phàm Nhân", "Luyện Khí", "Trúc Cơ", "Kết Đan", "Nguyên Anh", "Hóa Thần"}

func newRealmsCmd() *cobra.Command {
	var tiers []string
	var maxLevel int
	cmd := &cobra.Command{
		Use:   "realms",
		Short: "Print the realm ladder of a realm system",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxLevel < 0 {
				return fmt.Errorf("--max must be non-negative")
			}
			out := cmd.OutOrStdout()
			for _, opt := range realm.Options(tiers, maxLevel) {
				fmt.Fprintf(out, "%4d  %s\n", opt.Level, opt.Name)
			}
			fmt.Fprintf(out, "max level: %d\n", realm.MaxLevel(tiers))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tiers, "tiers", defaultTiers, "comma separated realm tiers, lowest first")
	cmd.Flags().IntVar(&maxLevel, "max", 0, "stop listing at this level (0 lists up to the summit)")
	return cmd
}
