package app

import (
	"fmt"

	alertHTTP "github.com/allisson/remediation/internal/alert/http"
	alertRepository "github.com/allisson/remediation/internal/alert/repository"
	alertUseCase "github.com/allisson/remediation/internal/alert/usecase"
	"github.com/allisson/remediation/internal/database"
)

// AlertRepository returns the alert store for the configured driver.
func (c *Container) AlertRepository() (alertUseCase.AlertRepository, error) {
	err := c.lazy(&c.alertRepoInit, "alertRepo", func() (err error) {
		c.alertRepo, err = c.initAlertRepository()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.alertRepo, nil
}

// AlertUseCase returns the alert use case. Ingested events are queued on the remediation use case.
func (c *Container) AlertUseCase() (alertUseCase.AlertUseCase, error) {
	err := c.lazy(&c.alertUseCaseInit, "alertUseCase", func() (err error) {
		c.alertUseCase, err = c.initAlertUseCase()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.alertUseCase, nil
}

// AlertHandler returns the HTTP handler for the alert API.
func (c *Container) AlertHandler() (*alertHTTP.AlertHandler, error) {
	err := c.lazy(&c.alertHandlerInit, "alertHandler", func() error {
		useCase, err := c.AlertUseCase()
		if err != nil {
			return fmt.Errorf("failed to get alert use case for handler: %w", err)
		}
		c.alertHandler = alertHTTP.NewAlertHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.alertHandler, nil
}

func (c *Container) initAlertRepository() (alertUseCase.AlertRepository, error) {
	// Checked before connecting so a bad driver never reaches sql.Open.
	if err := database.CheckDriver(c.config.DBDriver); err != nil {
		return nil, err
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for alert repository: %w", err)
	}

	if c.config.DBDriver == database.DriverMySQL {
		return alertRepository.NewMySQLAlertRepository(db), nil
	}
	return alertRepository.NewPostgreSQLAlertRepository(db), nil
}

func (c *Container) initAlertUseCase() (alertUseCase.AlertUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for alert use case: %w", err)
	}

	alertRepo, err := c.AlertRepository()
	if err != nil {
		return nil, err
	}

	enqueuer, err := c.RemediationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get remediation use case for alert use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := alertUseCase.NewAlertUseCase(
		txManager,
		alertRepo,
		enqueuer,
		c.config.ManualDefaultPath,
		c.Logger(),
	)
	return alertUseCase.NewAlertUseCaseWithMetrics(useCase, businessMetrics), nil
}
