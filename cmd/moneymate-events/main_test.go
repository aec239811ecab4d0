package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"moneymate/internal/amqp"
	"moneymate/internal/log"
)

func TestLogEvent(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		ev   amqp.TransactionEvent
		want []string
		not  []string
	}{
		{
			name: "created",
			ev:   amqp.NewTransactionEvent(amqp.ActionCreated, "tx-1", at),
			want: []string{"action=created", "transaction_id=tx-1"},
			not:  []string{"count="},
		},
		{
			name: "imported",
			ev:   amqp.NewImportEvent(4, at),
			want: []string{"action=imported", "count=4"},
			not:  []string{"transaction_id="},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(log.Config{Output: &buf, Component: log.ComponentAMQP})
			if err := logEvent(logger)(context.Background(), tt.ev); err != nil {
				t.Fatalf("handler returned %v", err)
			}
			line := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("log %q missing %q", line, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(line, n) {
					t.Errorf("log %q has %q", line, n)
				}
			}
		})
	}
}
