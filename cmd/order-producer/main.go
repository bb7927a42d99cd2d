package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	orderreaderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order-reader/v1"
	orderv1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/order/v1"
	resourcev1 "github.com/decent-stuff/decent-cloud-sub001/internal/domain/resource/v1"
	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"
)

// offeringFixture is one provider offering loaded from the YAML fixture file.
// The order ID is part of the fixture: the engine keys the book by it, so the
// producer must assign it rather than leave it to the consumer side.
type offeringFixture struct {
	OrderID    string                `yaml:"order_id"`
	ProviderID string                `yaml:"provider_id"`
	Spec       resourcev1.Spec       `yaml:"spec"`
	Start      int64                 `yaml:"start"`
	Validity   int64                 `yaml:"validity"`
	Schedule   orderv1.PriceSchedule `yaml:"schedule"`
}

// generateRandomID creates a random alphanumeric ID
func generateRandomID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	var result strings.Builder
	for i := 0; i < length; i++ {
		result.WriteByte(charset[rand.Intn(len(charset))])
	}
	return result.String()
}

// loadOfferings reads the YAML fixture of provider offerings.
func loadOfferings(path string) ([]offeringFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var offerings []offeringFixture
	if err := yaml.Unmarshal(data, &offerings); err != nil {
		return nil, err
	}
	for i, offering := range offerings {
		if offering.OrderID == "" {
			return nil, fmt.Errorf("offering %d (%s) has no order_id", i, offering.ProviderID)
		}
	}
	return offerings, nil
}

// generateBuys creates buy envelopes whose predicates are derived from the
// loaded offerings, so a realistic share of them can actually match.
func generateBuys(offerings []offeringFixture, count int, nowTick int64) []orderreaderv1.OrderEnvelope {
	envelopes := make([]orderreaderv1.OrderEnvelope, count)

	for i := 0; i < count; i++ {
		target := offerings[rand.Intn(len(offerings))]

		predicate := &resourcev1.Predicate{
			Country:  target.Spec.Country,
			MinCores: target.Spec.Cores,
		}
		// A third of the buyers ask for more memory than anyone offers
		minMemory := target.Spec.MemoryGB
		if rand.Float64() < 0.33 {
			minMemory = target.Spec.MemoryGB * 4
		}
		predicate.MinMemoryGB = minMemory

		duration := int64(rand.Intn(48) + 1)
		unitPrice := target.Schedule[0].Price/target.Schedule[0].Multiplier + int64(rand.Intn(20))

		envelopes[i] = orderreaderv1.OrderEnvelope{
			Type: orderreaderv1.EnvelopeBuy,
			Buy: &orderreaderv1.BuyPayload{
				OrderID:   generateRandomID(rand.Intn(4) + 5), // 5-8 characters
				UserID:    generateRandomID(rand.Intn(4) + 6), // 6-9 characters
				Predicate: predicate,
				Start:     nowTick + int64(rand.Intn(24)),
				Duration:  duration,
				UnitPrice: unitPrice,
			},
		}
	}

	return envelopes
}

func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic     = flag.String("topic", "orders", "Kafka topic name")
		file      = flag.String("offerings", "offerings.yaml", "YAML file with provider offerings")
		delay     = flag.Duration("delay", 100*time.Millisecond, "Delay between sending envelopes")
		buyCount  = flag.Int("buys", 200, "Number of buy orders to generate")
		startTick = flag.Int64("start-tick", 0, "Base tick for buy order start times (0 = current hour)")
	)
	flag.Parse()

	rand.Seed(time.Now().UnixNano())

	offerings, err := loadOfferings(*file)
	if err != nil {
		log.Fatalf("Failed to load offerings from %s: %v", *file, err)
	}
	if len(offerings) == 0 {
		log.Fatalf("No offerings in %s", *file)
	}
	log.Printf("Loaded %d offerings from file: %s", len(offerings), *file)

	nowTick := *startTick
	if nowTick == 0 {
		nowTick = time.Now().Unix() / 3600
	}

	var envelopes []orderreaderv1.OrderEnvelope
	for _, offering := range offerings {
		start := offering.Start
		if start == 0 {
			start = nowTick
		}
		envelopes = append(envelopes, orderreaderv1.OrderEnvelope{
			Type: orderreaderv1.EnvelopeSell,
			Sell: &orderreaderv1.SellPayload{
				OrderID:    offering.OrderID,
				ProviderID: offering.ProviderID,
				Spec:       offering.Spec,
				Start:      start,
				Validity:   offering.Validity,
				Schedule:   offering.Schedule,
			},
		})
	}
	envelopes = append(envelopes, generateBuys(offerings, *buyCount, nowTick)...)

	// Create Kafka writer
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	log.Printf("Sending %d envelopes to Kafka broker: %s, topic: %s", len(envelopes), *brokers, *topic)
	log.Printf("Delay between envelopes: %v", *delay)

	sells, buys := 0, 0
	for i, envelope := range envelopes {
		value, err := json.Marshal(envelope)
		if err != nil {
			log.Printf("Failed to marshal envelope %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Value: value,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send envelope %d: %v", i+1, err)
			continue
		}

		switch envelope.Type {
		case orderreaderv1.EnvelopeSell:
			sells++
		case orderreaderv1.EnvelopeBuy:
			buys++
		}

		if (i+1)%100 == 0 || i == len(envelopes)-1 {
			log.Printf("Sent envelope %d/%d: %s", i+1, len(envelopes), envelope.Type)
		}

		if i < len(envelopes)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("--- Summary ---")
	log.Printf("Total Envelopes: %d", len(envelopes))
	log.Printf("Sell Orders: %d", sells)
	log.Printf("Buy Orders: %d", buys)
}
