package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mehmetymw/notification-relay/internal/adapter/execution"
)

var errFunctionFailed = errors.New("function reported failure")

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Execute a deployed relay function and print what it returned",
	Long: `Trigger a deployed email or SMS function through the hosting runtime's
executions API, then print the payload, the execution record, the decoded
function response and the function logs.

Examples:
  relay invoke --project p1 --function f1 --data '{"to":"a@b.com","subject":"Test","content":"Hello"}'`,
	Args: cobra.NoArgs,
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().String("endpoint", envOr("APPWRITE_ENDPOINT", "https://cloud.appwrite.io"), "Function runtime endpoint")
	invokeCmd.Flags().String("project", os.Getenv("APPWRITE_PROJECT"), "Project id")
	invokeCmd.Flags().String("key", os.Getenv("APPWRITE_API_KEY"), "API key, if the function requires one")
	invokeCmd.Flags().String("function", "", "Function id")
	invokeCmd.Flags().String("data", "", "JSON payload (defaults to stdin)")
	invokeCmd.Flags().Duration("timeout", 60*time.Second, "Request timeout")
	_ = invokeCmd.MarkFlagRequired("function")
}

func runInvoke(cmd *cobra.Command, _ []string) error {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	project, _ := cmd.Flags().GetString("project")
	key, _ := cmd.Flags().GetString("key")
	functionID, _ := cmd.Flags().GetString("function")
	data, _ := cmd.Flags().GetString("data")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if project == "" {
		return errors.New("--project or APPWRITE_PROJECT is required")
	}

	raw, err := readPayload(data, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := execution.NewClient(execution.Config{
		Endpoint:  endpoint,
		ProjectID: project,
		APIKey:    key,
		Timeout:   timeout,
	})

	return invoke(ctx, cmd.OutOrStdout(), client, functionID, raw)
}

func invoke(ctx context.Context, w io.Writer, client *execution.Client, functionID string, raw []byte) error {
	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	fmt.Fprintln(w, "Payload:")
	if err := writeJSON(w, payload); err != nil {
		return err
	}

	exec, err := client.Execute(ctx, functionID, payload)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\nExecution:")
	if err := writeJSON(w, exec); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nExecution %s: %s\n", exec.ID, statusOrPending(exec.Status))

	if exec.ResponseBody != "" {
		fmt.Fprintln(w, "\nFunction response:")
		if resp, ok := exec.FunctionResponse(); ok {
			if err := writeJSON(w, resp); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(w, exec.ResponseBody)
		}
	}

	printLogs(w, "stdout", firstNonEmpty(exec.Stdout, exec.Logs))
	printLogs(w, "stderr", firstNonEmpty(exec.Stderr, exec.Errors))

	if !exec.Succeeded() {
		return errFunctionFailed
	}
	fmt.Fprintln(w, "\nFunction executed successfully")
	return nil
}

func printLogs(w io.Writer, name, logs string) {
	if logs == "" {
		return
	}
	fmt.Fprintf(w, "\nFunction logs (%s):\n%s\n", name, logs)
}

func statusOrPending(status string) string {
	if status == "" {
		return "pending"
	}
	return status
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
