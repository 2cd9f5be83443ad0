package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|->",
	Short: "Check a program for consistency",
	Long: `Parses a program and reports a missing start state, transitions to
undefined states and overlapping input symbols within one state.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prog := mustLoad(args[0])
		if err := prog.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Validation failed:")
			for _, e := range domain.ValidationErrors(err) {
				fmt.Fprintf(os.Stderr, "  - %v\n", e)
			}
			exit(1)
		}
		fmt.Printf("Program is valid! ✅ (%d states)\n", prog.Config.Len())
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file|->",
	Short: "Print a program in canonical form",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prog := mustLoad(args[0])
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			data, err := prog.MarshalYAMLDocument()
			if err != nil {
				fail("Error encoding YAML", err)
			}
			os.Stdout.Write(data)
			return
		}
		fmt.Print(prog.Format())
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file|->",
	Short: "Encode a program into its binary form",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prog := mustLoad(args[0])
		asBase64, _ := cmd.Flags().GetBool("base64")
		output, _ := cmd.Flags().GetString("output")

		var data []byte
		if asBase64 {
			data = []byte(prog.Base64() + "\n")
		} else {
			bin, err := prog.MarshalBinary()
			if err != nil {
				fail("Error encoding program", err)
			}
			data = bin
		}

		if output == "" || output == "-" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			fail("Error writing output", err)
		}
		logger.Info("program encoded", "output", output, "bytes", len(data))
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Decode a binary program and print it as text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args[0])
		if err != nil {
			fail("Error reading input", err)
		}

		var prog *dsl.Program
		if asBase64, _ := cmd.Flags().GetBool("base64"); asBase64 {
			prog, err = dsl.DecodeBase64(strings.TrimSpace(string(data)))
		} else {
			prog, err = dsl.Decode(data)
		}
		if err != nil {
			fail("Error decoding program", err)
		}
		fmt.Print(prog.Format())
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <file|->",
	Short: "Print the state graph as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prog := mustLoad(args[0])
		fmt.Print(graph.GenerateMermaid(prog.Config, nil))
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <file|->",
	Short: "Describe a program as a rendered markdown document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.WriteDescription(args[0], os.Stdin, os.Stdout); err != nil {
			fail("Error describing program", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd, fmtCmd, encodeCmd, decodeCmd, graphCmd, describeCmd)

	fmtCmd.Flags().Bool("yaml", false, "Print the YAML document form")
	encodeCmd.Flags().Bool("base64", false, "Write base64 text instead of raw bytes")
	encodeCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	decodeCmd.Flags().Bool("base64", false, "Input is base64 text")
}

func mustLoad(path string) *dsl.Program {
	prog, err := cli.LoadProgram(path, os.Stdin)
	if err != nil {
		var perr *dsl.ParseError
		if errors.As(err, &perr) {
			fail(fmt.Sprintf("Parse error on line %d", perr.Line), perr.Err)
		}
		fail("Error loading program", err)
	}
	return prog
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
