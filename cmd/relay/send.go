package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	httpAdapter "github.com/mehmetymw/notification-relay/internal/adapter/http"
	"github.com/mehmetymw/notification-relay/internal/app"
	"github.com/mehmetymw/notification-relay/internal/domain"
)

var errDispatchFailed = errors.New("dispatch failed")

var sendCmd = &cobra.Command{
	Use:   "send <email|sms>",
	Short: "Send one notification and print the result envelope",
	Long: `Send one notification through the configured provider. The request is a
JSON object {to, from, senderName, subject, content} read from --data or,
when --data is empty, from stdin.

Examples:
  relay send email --data '{"to":"a@b.com","subject":"Hi","content":"Hello"}'
  echo '{"to":"+15555555555","from":"Clinic","content":"See you"}' | relay send sms`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.ChannelEmail), string(domain.ChannelSMS)},
	RunE:      runSend,
}

func init() {
	sendCmd.Flags().String("data", "", "JSON request body (defaults to stdin)")
}

func runSend(cmd *cobra.Command, args []string) error {
	ch := domain.Channel(args[0])
	if ch != domain.ChannelEmail && ch != domain.ChannelSMS {
		return fmt.Errorf("%w: %s", domain.ErrInvalidChannel, args[0])
	}

	data, _ := cmd.Flags().GetString("data")
	payload, err := readPayload(data, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := buildComponents(cfg, log, nil)
	result := dispatchPayload(ctx, c.dispatcher, ch, payload)

	if err := writeJSON(cmd.OutOrStdout(), envelopeFor(ch, result)); err != nil {
		return err
	}
	if !result.Success {
		return errDispatchFailed
	}
	return nil
}

func readPayload(data string, stdin io.Reader) ([]byte, error) {
	if strings.TrimSpace(data) != "" {
		return []byte(data), nil
	}
	payload, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return payload, nil
}

// dispatchPayload decodes payload and dispatches it on ch. A malformed
// payload comes back as a failure result like any provider error.
func dispatchPayload(ctx context.Context, d *app.Dispatcher, ch domain.Channel, payload []byte) domain.Result {
	var req httpAdapter.FunctionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return domain.Failed(fmt.Errorf("%w: %v", domain.ErrMalformedBody, err))
	}

	if ch == domain.ChannelSMS {
		return d.SendSMS(ctx, req.ToDomain())
	}
	return d.SendEmail(ctx, req.ToDomain())
}

func envelopeFor(ch domain.Channel, r domain.Result) any {
	switch {
	case !r.Success:
		return httpAdapter.NewErrorResponse(r.Error)
	case ch == domain.ChannelSMS:
		return httpAdapter.SMSFunctionResponse{Success: true, TextID: r.ProviderMessageID, QuotaRemaining: r.QuotaRemaining}
	default:
		return httpAdapter.EmailFunctionResponse{Success: true, MessageID: r.ProviderMessageID}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
