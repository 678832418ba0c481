package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptacct/promptacct/accountant"
	"github.com/promptacct/promptacct/internal/encoding"
	"github.com/promptacct/promptacct/internal/model"
	"github.com/promptacct/promptacct/logging"
)

func init() {
	priceCmd.Flags().StringP("config", "c", "", "path to a model config registry document (required)")
	priceCmd.Flags().StringP("model", "m", "", "model identifier to price against (required)")
	priceCmd.Flags().StringP("vocab", "v", "", "path to the model's GPT-2-style vocab.json encoding table (required)")
	priceCmd.Flags().StringP("prompt", "p", "", "path to a prompt document (messages + tools) (required)")
	for _, name := range []string{"config", "model", "vocab", "prompt"} {
		_ = priceCmd.MarkFlagRequired(name)
	}
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a full prompt (messages and tool definitions) against a model config",
	Long: `price loads a model config registry, resolves the requested model's encoding
table, parses a prompt document, and reports the same nested token breakdown
the Prompt Accountant API returns.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		modelName, _ := cmd.Flags().GetString("model")
		vocabPath, _ := cmd.Flags().GetString("vocab")
		promptPath, _ := cmd.Flags().GetString("prompt")

		registry, err := model.LoadRegistryFile(configPath)
		if err != nil {
			return err
		}
		cfg, ok := registry.Get(modelName)
		if !ok {
			return fmt.Errorf("model %q not found in %s", modelName, configPath)
		}

		table, err := encoding.LoadGPT2Vocab(vocabPath, nil)
		if err != nil {
			return fmt.Errorf("load encoding table: %w", err)
		}

		engine, err := cfg.ResolveEngine(map[string]*encoding.Table{cfg.Encoding: table})
		if err != nil {
			return err
		}

		data, err := os.ReadFile(promptPath) //nolint:gosec // promptPath is caller-supplied CLI input, trusted
		if err != nil {
			return fmt.Errorf("read prompt document: %w", err)
		}

		messages, tools, err := parsePrompt(data)
		if err != nil {
			return err
		}

		logging.Infow("pricing prompt", "model", modelName, "messages", len(messages), "tools", len(tools))

		result, err := accountant.New(engine, cfg).Count(messages, tools)
		if err != nil {
			return fmt.Errorf("count prompt: %w", err)
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		cmd.Println(string(out))
		return nil
	},
}
