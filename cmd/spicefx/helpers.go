package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/config"
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/exchangerate"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/Veraticus/the-spice-must-convert/internal/voice"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// newRateProvider builds the exchange-rate client. Tests replace it.
var newRateProvider = func(cfg *config.Config) (service.RateProvider, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := exchangerate.NewClient(cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create exchange rate client: %w", err)
	}
	return client, nil
}

// newRecognizer picks the voice backend: a transcript given up front wins,
// then Whisper when it is configured. A nil recognizer means voice input is
// unavailable. Tests replace it.
var newRecognizer = func(cfg *config.Config, transcript, audioFile string) service.Recognizer {
	if transcript != "" {
		return voice.StaticRecognizer{Transcript: transcript}
	}

	wc := cfg.WhisperConfig()
	if audioFile != "" {
		wc.AudioFile = config.ExpandPath(audioFile)
		wc.RecordCommand = ""
	}
	whisper := voice.NewWhisperRecognizer(wc)
	if !whisper.Available() {
		slog.Debug("Voice input not configured")
		return nil
	}
	return whisper
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

func loadCatalog(ctx context.Context, provider service.RateProvider) (model.Catalog, error) {
	currencies, err := provider.ListCurrencies(ctx)
	if err != nil {
		return model.Catalog{}, common.NewUserError(common.MsgCatalogFailed, err)
	}
	return model.NewCatalog(currencies), nil
}

// convertOnce applies the same guard as the interactive pipeline and
// performs a single lookup.
func convertOnce(ctx context.Context, provider service.RateProvider, catalog model.Catalog, amount model.Amount, from, to model.CurrencyCode) (model.ConversionResult, error) {
	if !amount.Positive() {
		return model.ConversionResult{}, common.NewUserError(common.MsgInvalidAmount, nil)
	}
	for _, code := range []model.CurrencyCode{from, to} {
		if !catalog.Contains(code) {
			return model.ConversionResult{}, common.NewUserError(fmt.Sprintf("Unsupported currency: %s", code), nil)
		}
	}
	if !converter.Guard(amount, from, to, catalog) {
		return model.ConversionResult{}, common.NewUserError(common.MsgInvalidAmount, nil)
	}

	common.LogDebug("Converting", common.Fields{"amount": amount.Value, "from": from, "to": to})
	converted, err := provider.Convert(ctx, from, to, amount.Value)
	if err != nil {
		return model.ConversionResult{}, common.NewUserError(common.UserMessage(err, common.MsgLookupFailed), err)
	}

	return model.ConversionResult{
		Amount:    amount.Value,
		From:      from,
		To:        to,
		Converted: converted,
	}, nil
}
