// Command seed loads a demo data set: one admin, two organisers with site
// settings, and a handful of published events with tickets.
package main

import (
	"context"
	"time"

	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/config"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/cimillas/event-manager/internal/storage/postgres"
	"github.com/cimillas/event-manager/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect to database")
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	if err := seed(ctx, pool, logger); err != nil {
		logger.WithError(err).Fatal("seed")
	}
	logger.Info("seed complete")
}

func seed(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	now := clock.NewSystem().Now()
	accounts := postgres.NewAccountRepository(pool)
	events := postgres.NewEventRepository(pool)
	admins := postgres.NewAdminRepository(pool)

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.WithError(err).Fatal("hash password")
		}
		return string(h)
	}

	admin := domain.Admin{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash("admin123"),
		CreatedAt:    now,
	}
	if err := admins.CreateAdmin(ctx, admin); err != nil {
		if err != domain.ErrUsernameTaken {
			return err
		}
		logger.Info("admin already seeded, skipping")
		return nil
	}

	organisers := []struct {
		username     string
		password     string
		organisation string
		siteName     string
		siteDesc     string
	}{
		{"organiser1", "password123", "City Live Events", "City Live", "Concerts and club nights across town."},
		{"organiser2", "password123", "Makers Guild", "Makers Guild Workshops", "Hands-on craft and technology workshops."},
	}

	type seedTicket struct {
		typ        string
		priceCents int64
		quantity   int
	}
	type seedEvent struct {
		title       string
		description string
		daysAhead   int
		tickets     []seedTicket
	}

	eventsByOrganiser := [][]seedEvent{
		{
			{
				title:       "Summer Rooftop Concert",
				description: "An open-air evening of live music with the city skyline as the backdrop.",
				daysAhead:   30,
				tickets: []seedTicket{
					{"General Admission", 2500, 150},
					{"VIP", 7500, 20},
				},
			},
			{
				title:       "Indie Night at the Warehouse",
				description: "Four local bands, one night, no support acts you have heard of yet.",
				daysAhead:   14,
				tickets: []seedTicket{
					{"Standard", 1500, 200},
				},
			},
		},
		{
			{
				title:       "Intro to Woodworking",
				description: "A beginner-friendly Saturday workshop covering hand tools and joinery.",
				daysAhead:   21,
				tickets: []seedTicket{
					{"Workshop Seat", 4500, 12},
					{"Observer", 1000, 8},
				},
			},
		},
	}

	for i, o := range organisers {
		organiser := domain.Organiser{
			ID:           uuid.NewString(),
			Username:     o.username,
			PasswordHash: hash(o.password),
			Organisation: o.organisation,
			IsActive:     true,
			CreatedAt:    now,
		}
		if err := accounts.CreateOrganiser(ctx, organiser); err != nil {
			return err
		}
		if err := accounts.UpsertSettings(ctx, domain.SiteSettings{
			OrganiserID: organiser.ID,
			Name:        o.siteName,
			Description: o.siteDesc,
			UpdatedAt:   now,
		}); err != nil {
			return err
		}

		for _, se := range eventsByOrganiser[i] {
			event := domain.Event{
				ID:           uuid.NewString(),
				OrganiserID:  organiser.ID,
				Title:        se.title,
				Description:  se.description,
				EventDate:    now.AddDate(0, 0, se.daysAhead),
				State:        domain.EventStateDraft,
				CreatedAt:    now,
				LastModified: now,
			}
			if err := events.CreateEvent(ctx, event); err != nil {
				return err
			}
			if err := events.Publish(ctx, event.ID, now); err != nil {
				return err
			}
			for _, st := range se.tickets {
				if err := events.UpsertTicket(ctx, domain.Ticket{
					ID:         uuid.NewString(),
					EventID:    event.ID,
					Type:       st.typ,
					PriceCents: st.priceCents,
					Quantity:   st.quantity,
				}); err != nil {
					return err
				}
			}
			logger.WithField("title", se.title).Info("seeded event")
		}
	}
	return nil
}
