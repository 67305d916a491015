package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"upi-checkout/internal/config"
	"upi-checkout/internal/domain"
	"upi-checkout/internal/infrastructure/backend"
	"upi-checkout/internal/infrastructure/payment"
	"upi-checkout/internal/logger"
	"upi-checkout/internal/service"
	"upi-checkout/internal/worker"
)

const submissions = 20

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New("").Fatal(err)
	}
	log := logger.New(cfg.Env)
	defer log.Sync()

	provider := payment.NewMockProvider(payment.MockConfig{
		SuccessRate:   60,
		FailureRate:   25,
		DuplicateRate: 20,
		LoadDelay:     300 * time.Millisecond,
		Latency:       200 * time.Millisecond,
		KeySecret:     cfg.SimulateKeySecret,
	})
	client := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout, log)

	machine := service.NewPaymentStateMachine(
		provider,
		worker.NewReadinessMonitor(cfg.PollInterval, cfg.PollAttempts, log),
		client,
		service.NewSessionController(provider, service.SessionSettings{
			KeyID:        cfg.KeyID,
			MerchantName: cfg.MerchantName,
			Description:  cfg.Description,
			ThemeColor:   cfg.ThemeColor,
		}, log),
		service.NewResultVerifier(client, log),
		cfg.Currency,
		log,
	)

	if err := machine.Start(ctx); err != nil {
		log.Fatalw("checkout widget did not load", "error", err)
	}

	fmt.Printf("--- STARTING SIMULATION (%d CHECKOUTS) ---\n", submissions)
	counts := make(map[domain.PaymentPhase]int)
	for i := 0; i < submissions; i++ {
		form := domain.PaymentFormInput{
			Amount:   float64(1 + rand.IntN(500)),
			Name:     fmt.Sprintf("Payer %d", i+1),
			Email:    fmt.Sprintf("payer%d@example.com", i+1),
			Location: "Bengaluru",
		}

		fmt.Printf("[%d] Paying %.2f %s ... ", i+1, form.Amount, cfg.Currency)
		if err := machine.Submit(ctx, form); err != nil {
			fmt.Printf("REJECTED: %v\n", err)
			continue
		}

		waitCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout*3)
		snap, err := machine.Wait(waitCtx)
		cancel()
		if err != nil {
			fmt.Printf("STUCK in %s: %v\n", snap.Phase, err)
			return
		}

		counts[snap.Phase]++
		fmt.Printf("%s\n", snap.Phase)
		fmt.Printf("    -> order %s: %s\n", snap.OrderID, snap.Message)
		fmt.Println("---------------------------------------------------")
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Printf("succeeded=%d failed=%d cancelled=%d\n",
		counts[domain.PhaseSucceeded], counts[domain.PhaseFailed], counts[domain.PhaseCancelled])
}
