package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/skairipa08/FundEd/internal/modules/payments"
)

func main() {
	url := flag.String("url", "http://localhost:8080/api/webhooks/mock", "Webhook URL")
	secret := flag.String("secret", os.Getenv("MOCK_WEBHOOK_SECRET"), "Webhook secret")
	eventID := flag.String("event-id", "evt_"+uuid.NewString()[:8], "Event ID")
	eventType := flag.String("type", payments.EventCheckoutCompleted,
		"Event type (checkout.session.completed, checkout.session.async_payment_succeeded, checkout.session.async_payment_failed, checkout.session.expired, charge.refunded)")
	sessionID := flag.String("session", "", "Checkout session id (checkout events)")
	paymentIntent := flag.String("payment-intent", "", "Payment intent (charge.refunded)")
	paymentStatus := flag.String("payment-status", "paid", "Payment status for checkout.session.completed")
	refunded := flag.Int64("refunded", 0, "Amount refunded in cents (charge.refunded)")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and MOCK_WEBHOOK_SECRET not set\n")
		os.Exit(1)
	}
	if *sessionID == "" && *paymentIntent == "" {
		fmt.Fprintf(os.Stderr, "Error: -session or -payment-intent is required\n")
		os.Exit(1)
	}

	payload := payments.MockPayload{
		ID:   *eventID,
		Type: *eventType,
		Data: payments.MockPayloadData{
			SessionID:      *sessionID,
			PaymentIntent:  *paymentIntent,
			AmountRefunded: *refunded,
		},
	}
	if *eventType == payments.EventCheckoutCompleted {
		payload.Data.PaymentStatus = *paymentStatus
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	sigHeader := payments.MockSignatureValue([]byte(*secret), time.Now().Unix(), body)

	fmt.Printf("%s: %s\n", payments.MockSignatureHeader, sigHeader)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payments.MockSignatureHeader, sigHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
