package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/oracle"
)

var oraclesCmd = &cobra.Command{
	Use:   "oracles",
	Short: "List fitness oracles and algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Oracles:")
		for _, name := range oracle.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("Algorithms:")
		for _, name := range config.AlgorithmNames {
			fmt.Printf("  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(oraclesCmd)
}
