package runner

import (
	"stock-hunter/pkg/checkers/amazon"
	"stock-hunter/pkg/checkers/croma"
	"stock-hunter/pkg/checkers/flipkart"
	"stock-hunter/pkg/checkers/iqoo"
	"stock-hunter/pkg/checkers/reliancedigital"
	"stock-hunter/pkg/checkers/unicorn"
	"stock-hunter/pkg/checkers/vivo"
	"stock-hunter/pkg/config"
	"stock-hunter/pkg/models"
)

// NewRegistry wires one checker per known store type. Built once at
// startup; checkers hold no per-run state.
func NewRegistry(cfg *config.Config) Registry {
	return Registry{
		models.StoreCroma:           croma.New(),
		models.StoreFlipkart:        flipkart.New(),
		models.StoreAmazon:          amazon.New(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AmazonPartnerTag),
		models.StoreVivo:            vivo.New(),
		models.StoreIqoo:            iqoo.New(),
		models.StoreUnicorn:         unicorn.New(),
		models.StoreRelianceDigital: reliancedigital.New(),
	}
}
