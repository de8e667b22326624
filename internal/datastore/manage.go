package datastore

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold defines the duration after which a query is
// considered slow and logged as a warning.
const DefaultSlowQueryThreshold = 1 * time.Second

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             DefaultSlowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	// Register the explicit join model so the behaviors_notes table carries
	// the composite primary key instead of GORM's implicit join table.
	if err := db.SetupJoinTable(&Note{}, "Behaviors", &NoteBehavior{}); err != nil {
		return fmt.Errorf("failed to set up behaviors_notes join table: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &Species{}, &Behavior{}, &Note{}, &Comment{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if err := seedReferenceData(db); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// seedReferenceData inserts the static species and behavior reference lists
// on first startup. Existing rows are left untouched.
func seedReferenceData(db *gorm.DB) error {
	var speciesCount int64
	if err := db.Model(&Species{}).Count(&speciesCount).Error; err != nil {
		return err
	}
	if speciesCount == 0 {
		if err := db.Create(defaultSpecies()).Error; err != nil {
			return err
		}
	}

	var behaviorCount int64
	if err := db.Model(&Behavior{}).Count(&behaviorCount).Error; err != nil {
		return err
	}
	if behaviorCount == 0 {
		if err := db.Create(defaultBehaviors()).Error; err != nil {
			return err
		}
	}

	return nil
}

// defaultSpecies returns the species reference list shipped with the
// application, common Southeast Asian garden and park birds.
func defaultSpecies() []Species {
	return []Species{
		{Name: "Javan Myna", ScientificName: "Acridotheres javanicus"},
		{Name: "Asian Koel", ScientificName: "Eudynamys scolopaceus"},
		{Name: "Rock Dove", ScientificName: "Columba livia"},
		{Name: "Olive-backed Sunbird", ScientificName: "Cinnyris jugularis"},
		{Name: "Yellow-vented Bulbul", ScientificName: "Pycnonotus goiavier"},
		{Name: "Oriental Magpie-Robin", ScientificName: "Copsychus saularis"},
		{Name: "Collared Kingfisher", ScientificName: "Todiramphus chloris"},
		{Name: "House Crow", ScientificName: "Corvus splendens"},
		{Name: "Spotted Dove", ScientificName: "Spilopelia chinensis"},
		{Name: "Common Tailorbird", ScientificName: "Orthotomus sutorius"},
	}
}

// defaultBehaviors returns the behavior tag reference list.
func defaultBehaviors() []Behavior {
	return []Behavior{
		{Label: "Foraging"},
		{Label: "Singing"},
		{Label: "Preening"},
		{Label: "Nesting"},
		{Label: "Flocking"},
		{Label: "Bathing"},
		{Label: "Territorial display"},
		{Label: "Feeding young"},
	}
}
