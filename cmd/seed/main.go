// Command seed applies the schema and loads the reference catalog plus a
// first admin account into an empty database.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mednex-health/mednex-api/internal/config"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	"github.com/mednex-health/mednex-api/internal/repository/postgres"
)

const bcryptCost = 12

type seedDisease struct {
	name        string
	description string
	symptoms    []string
	treatment   string
	severity    string
}

var referenceDiseases = []seedDisease{
	{
		name:        "Common Cold",
		description: "Viral infection affecting nose and throat",
		symptoms:    []string{"runny nose", "cough", "sore throat"},
		treatment:   "Rest, fluids, over-the-counter medications",
		severity:    model.SeverityLow,
	},
	{
		name:        "Influenza",
		description: "Respiratory illness caused by influenza viruses",
		symptoms:    []string{"fever", "body aches", "fatigue"},
		treatment:   "Rest, fluids, antiviral medications if prescribed",
		severity:    model.SeverityMedium,
	},
	{
		name:        "Migraine",
		description: "Severe headache often with nausea and light sensitivity",
		symptoms:    []string{"headache", "sensitivity to light", "nausea"},
		treatment:   "Pain relievers, rest in dark room, avoid triggers",
		severity:    model.SeverityMedium,
	},
	{
		name:        "Food Poisoning",
		description: "Illness caused by consuming contaminated food",
		symptoms:    []string{"nausea", "vomiting", "diarrhea"},
		treatment:   "Hydration, bland diet, medical attention if severe",
		severity:    model.SeverityMedium,
	},
	{
		name:        "Allergic Reaction",
		description: "Immune system reaction to allergens",
		symptoms:    []string{"rash", "itching", "swelling"},
		treatment:   "Avoid allergens, antihistamines, medical evaluation",
		severity:    model.SeverityMedium,
	},
	{
		name:        "Anxiety",
		description: "Mental health condition characterized by excessive worry",
		symptoms:    []string{"worry", "restlessness", "rapid heartbeat"},
		treatment:   "Therapy, relaxation techniques, medical consultation",
		severity:    model.SeverityMedium,
	},
	{
		name:        "Hypertension",
		description: "Condition where blood pressure is consistently high",
		symptoms:    []string{"high blood pressure", "headache", "dizziness"},
		treatment:   "Lifestyle changes, medication as prescribed",
		severity:    model.SeverityHigh,
	},
	{
		name:        "Diabetes",
		description: "Metabolic disorder affecting blood sugar levels",
		symptoms:    []string{"frequent urination", "excessive thirst", "blurred vision"},
		treatment:   "Diet management, exercise, medication as prescribed",
		severity:    model.SeverityHigh,
	},
	{
		name:        "Asthma",
		description: "Respiratory condition causing breathing difficulties",
		symptoms:    []string{"shortness of breath", "wheezing", "cough"},
		treatment:   "Inhalers, avoid triggers, medical management",
		severity:    model.SeverityHigh,
	},
	{
		name:        "Gastritis",
		description: "Inflammation of stomach lining",
		symptoms:    []string{"stomach pain", "bloating", "acid reflux"},
		treatment:   "Dietary changes, medications, avoid irritants",
		severity:    model.SeverityLow,
	},
	{
		name:        "Insomnia",
		description: "Sleep disorder preventing adequate rest",
		symptoms:    []string{"difficulty sleeping", "fatigue", "irritability"},
		treatment:   "Sleep hygiene, stress management, medical evaluation",
		severity:    model.SeverityLow,
	},
	{
		name:        "Depression",
		description: "Mental health condition affecting mood and behavior",
		symptoms:    []string{"sadness", "loss of interest", "fatigue"},
		treatment:   "Therapy, lifestyle changes, medical consultation",
		severity:    model.SeverityHigh,
	},
}

func main() {
	adminEmail := flag.String("admin-email", "admin@mednex.example.com", "email for the seeded admin account")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin account (required)")
	schemaPath := flag.String("schema", "migrations/schema.sql", "path to the schema file")
	flag.Parse()

	if *adminPassword == "" {
		log.Fatal().Msg("-admin-password is required")
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *schemaPath).Msg("failed to read schema")
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Msg("schema applied")

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	diseaseRepo := postgres.NewDiseaseRepository(base)
	symptomRepo := postgres.NewSymptomRepository(base)

	seeded := 0
	seen := map[string]bool{}
	for _, d := range referenceDiseases {
		disease := &model.Disease{
			Name:        d.name,
			Description: d.description,
			Symptoms:    pq.StringArray(d.symptoms),
			Treatment:   d.treatment,
			Severity:    d.severity,
		}
		if err := diseaseRepo.Create(ctx, disease); err != nil {
			log.Warn().Err(err).Str("disease", d.name).Msg("skipping disease")
			continue
		}
		seeded++

		for _, name := range d.symptoms {
			if seen[name] {
				continue
			}
			seen[name] = true
			symptom := &model.Symptom{
				Name:        name,
				Description: "Reported symptom: " + name,
			}
			if err := symptomRepo.Create(ctx, symptom); err != nil {
				log.Warn().Err(err).Str("symptom", name).Msg("skipping symptom")
			}
		}
	}
	log.Info().Int("diseases", seeded).Int("symptoms", len(seen)).Msg("reference catalog seeded")

	if _, err := userRepo.GetByEmail(ctx, *adminEmail); err == nil {
		log.Info().Str("email", *adminEmail).Msg("admin account already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatal().Err(err).Msg("failed to check admin account")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash admin password")
	}

	admin := &model.User{
		Email:        *adminEmail,
		FullName:     "MedNex Administrator",
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("failed to create admin account")
	}
	log.Info().Str("email", *adminEmail).Msg("admin account created")
}
