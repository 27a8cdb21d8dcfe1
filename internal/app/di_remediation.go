package app

import (
	"context"
	"fmt"

	"gocloud.dev/blob"

	"github.com/allisson/remediation/internal/config"
	guidanceService "github.com/allisson/remediation/internal/guidance/service"
	manualService "github.com/allisson/remediation/internal/manual/service"
	"github.com/allisson/remediation/internal/metrics"
	remediationHTTP "github.com/allisson/remediation/internal/remediation/http"
	remediationRepository "github.com/allisson/remediation/internal/remediation/repository"
	remediationUseCase "github.com/allisson/remediation/internal/remediation/usecase"
)

// QueueRepository returns the in-memory Queue Store.
func (c *Container) QueueRepository() remediationUseCase.QueueRepository {
	c.queueRepoInit.Do(func() {
		c.queueRepo = remediationRepository.NewMemoryQueueRepository()
	})
	return c.queueRepo
}

// DeadLetterRepository returns the bounded Dead-Letter Store.
func (c *Container) DeadLetterRepository() remediationUseCase.DeadLetterRepository {
	c.deadLetterRepoInit.Do(func() {
		c.deadLetterRepo = remediationRepository.NewMemoryDeadLetterRepository(c.config.QueueDeadLetterCapacity)
	})
	return c.deadLetterRepo
}

// ManualBucket returns the blob bucket holding equipment manuals.
func (c *Container) ManualBucket() (*blob.Bucket, error) {
	err := c.lazy(&c.manualBucketInit, "manualBucket", func() (err error) {
		c.manualBucket, err = manualService.OpenBucket(c.ctx, c.config.ManualBucketURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.manualBucket, nil
}

// ManualLookup returns the manual reader.
func (c *Container) ManualLookup() (remediationUseCase.ManualLookup, error) {
	err := c.lazy(&c.manualLookupInit, "manualLookup", func() (err error) {
		c.manualLookup, err = c.initManualLookup()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.manualLookup, nil
}

// GuidanceGenerator returns the configured guidance generator.
func (c *Container) GuidanceGenerator() (remediationUseCase.GuidanceGenerator, error) {
	err := c.lazy(&c.guidanceGeneratorInit, "guidanceGenerator", func() (err error) {
		c.guidanceGenerator, err = c.initGuidanceGenerator()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.guidanceGenerator, nil
}

// ResultWriter returns the writer that stores outcomes on alerts.
func (c *Container) ResultWriter() (remediationUseCase.ResultWriter, error) {
	err := c.lazy(&c.resultWriterInit, "resultWriter", func() (err error) {
		c.resultWriter, err = c.initResultWriter()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.resultWriter, nil
}

// RemediationUseCase returns the remediation queue service.
func (c *Container) RemediationUseCase() (remediationUseCase.RemediationUseCase, error) {
	err := c.lazy(&c.remediationUseCaseInit, "remediationUseCase", func() (err error) {
		c.remediationUseCase, err = c.initRemediationUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.remediationUseCase, nil
}

// RemediationHandler returns the HTTP handler for the queue API.
func (c *Container) RemediationHandler() (*remediationHTTP.RemediationHandler, error) {
	err := c.lazy(&c.remediationHandlerInit, "remediationHandler", func() error {
		useCase, err := c.RemediationUseCase()
		if err != nil {
			return fmt.Errorf("failed to get remediation use case for handler: %w", err)
		}
		c.remediationHandler = remediationHTTP.NewRemediationHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.remediationHandler, nil
}

func (c *Container) initManualLookup() (remediationUseCase.ManualLookup, error) {
	bucket, err := c.ManualBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to open manual bucket: %w", err)
	}
	return manualService.NewManualService(bucket, c.Logger()), nil
}

func (c *Container) initGuidanceGenerator() (remediationUseCase.GuidanceGenerator, error) {
	if c.config.GuidanceProvider == config.GuidanceProviderFallback {
		return guidanceService.NewFallbackGenerator(c.config.OpenAIModel), nil
	}

	apiKey, err := guidanceService.ResolveAPIKey(
		c.ctx,
		c.config.OpenAIAPIKey,
		c.config.OpenAIAPIKeyEncrypted,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve openai api key: %w", err)
	}

	return guidanceService.NewOpenAIGenerator(guidanceService.OpenAIConfig{
		APIKey:       apiKey,
		BaseURL:      c.config.OpenAIBaseURL,
		Model:        c.config.OpenAIModel,
		Timeout:      c.config.OpenAITimeout,
		MaxRetries:   c.config.OpenAIMaxRetries,
		ExcerptChars: c.config.GuidanceExcerptChars,
	}, c.Logger()), nil
}

func (c *Container) initResultWriter() (remediationUseCase.ResultWriter, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for result writer: %w", err)
	}

	alertRepo, err := c.AlertRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get alert repository for result writer: %w", err)
	}

	return remediationUseCase.NewAlertResultWriter(txManager, alertRepo, c.Logger()), nil
}

func (c *Container) initRemediationUseCase() (remediationUseCase.RemediationUseCase, error) {
	manualLookup, err := c.ManualLookup()
	if err != nil {
		return nil, err
	}

	generator, err := c.GuidanceGenerator()
	if err != nil {
		return nil, err
	}

	resultWriter, err := c.ResultWriter()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := remediationUseCase.NewRemediationUseCase(
		remediationUseCase.Config{
			MaxAttempts:   c.config.QueueMaxAttempts,
			RetryDelay:    c.config.QueueRetryDelay,
			DoneRetention: c.config.QueueDoneRetention,
			PruneInterval: c.config.QueuePruneInterval,
		},
		c.QueueRepository(),
		c.DeadLetterRepository(),
		manualLookup,
		generator,
		resultWriter,
		c.Logger(),
	)

	if err := c.registerQueueGauges(useCase); err != nil {
		return nil, err
	}

	return remediationUseCase.NewRemediationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// registerQueueGauges exposes live queue sizes, read through the undecorated use case so
// scrapes do not count as status operations.
func (c *Container) registerQueueGauges(useCase remediationUseCase.RemediationUseCase) error {
	provider, err := c.MetricsProvider()
	if err != nil || provider == nil {
		return err
	}

	err = metrics.RegisterQueueGauges(
		provider.MeterProvider(),
		provider.Namespace(),
		func(ctx context.Context) (metrics.QueueSnapshot, error) {
			report, err := useCase.Status(ctx)
			if err != nil {
				return metrics.QueueSnapshot{}, err
			}
			return metrics.QueueSnapshot{
				Pending:     report.Pending,
				Processing:  report.Processing,
				Error:       report.Error,
				Done:        report.Completed,
				DeadLetters: report.DeadLetters,
			}, nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register queue gauges: %w", err)
	}
	return nil
}
