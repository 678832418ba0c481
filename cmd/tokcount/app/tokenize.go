package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptacct/promptacct/tokenizer"
)

func init() {
	for _, cmd := range []*cobra.Command{encodeCmd, decodeCmd, countCmd} {
		cmd.Flags().StringP("vocab", "v", "", "path to a GPT-2-style vocab.json encoding table (required)")
		_ = cmd.MarkFlagRequired("vocab")
	}
}

var encodeCmd = &cobra.Command{
	Use:   "encode <text>",
	Short: "Encode text into token ranks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vocab, _ := cmd.Flags().GetString("vocab")
		table, err := loadTable(vocab)
		if err != nil {
			return err
		}
		engine, err := tokenizer.New(table)
		if err != nil {
			return fmt.Errorf("build tokenizer engine: %w", err)
		}

		ranks, err := engine.EncodeOrdinary(args[0])
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}

		strs := make([]string, len(ranks))
		for i, r := range ranks {
			strs[i] = strconv.Itoa(int(r))
		}
		cmd.Println(strings.Join(strs, ","))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <rank,rank,...>",
	Short: "Decode a comma-separated list of token ranks back into text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vocab, _ := cmd.Flags().GetString("vocab")
		table, err := loadTable(vocab)
		if err != nil {
			return err
		}
		engine, err := tokenizer.New(table)
		if err != nil {
			return fmt.Errorf("build tokenizer engine: %w", err)
		}

		fields := strings.Split(args[0], ",")
		ranks := make([]int32, 0, len(fields))
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			n, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid rank %q: %w", f, err)
			}
			ranks = append(ranks, int32(n))
		}

		cmd.Println(engine.Decode(ranks))
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count <text>",
	Short: "Count the tokens text would encode to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vocab, _ := cmd.Flags().GetString("vocab")
		table, err := loadTable(vocab)
		if err != nil {
			return err
		}
		engine, err := tokenizer.New(table)
		if err != nil {
			return fmt.Errorf("build tokenizer engine: %w", err)
		}

		n, err := engine.Count(args[0])
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		cmd.Println(n)
		return nil
	},
}

func loadTable(vocabPath string) (*tokenizer.Table, error) {
	table, err := tokenizer.LoadGPT2Table(vocabPath, nil)
	if err != nil {
		return nil, fmt.Errorf("load encoding table: %w", err)
	}
	return table, nil
}
