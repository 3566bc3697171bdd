package movies

import (
	"gorm.io/gorm"
)

// Movie statuses accepted by the catalog.
const (
	StatusReleased       = "Released"
	StatusPostProduction = "Post Production"
	StatusInProduction   = "In Production"
)

var Statuses = []string{StatusReleased, StatusPostProduction, StatusInProduction}

type Movie struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_movies_name_date"`
	Date      Date    `json:"date" gorm:"type:date;uniqueIndex:idx_movies_name_date"`
	Score     float64 `json:"score"`
	Overview  string  `json:"overview" gorm:"type:text"`
	Status    string  `json:"status" gorm:"type:varchar(32)"`
	Budget    float64 `json:"budget"`
	Revenue   float64 `json:"revenue"`
	CountryID uint    `json:"-" gorm:"index"`

	Country   Country    `json:"country" gorm:"foreignKey:CountryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Genres    []Genre    `json:"genres" gorm:"many2many:movie_genres;"`
	Actors    []Actor    `json:"actors" gorm:"many2many:movie_actors;"`
	Languages []Language `json:"languages" gorm:"many2many:movie_languages;"`
}

// Country is keyed naturally by its code; Name stays null until someone fills it in.
type Country struct {
	ID   uint    `json:"id" gorm:"primaryKey"`
	Code string  `json:"code" gorm:"type:varchar(64);uniqueIndex;not null"`
	Name *string `json:"name"`
}

type Genre struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
}

type Actor struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
}

type Language struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
}

// Relations lists the associations hydrated on every read.
var Relations = []string{"Country", "Genres", "Actors", "Languages"}

// ManyToMany lists the join-table associations owned by a movie.
var ManyToMany = []string{"Genres", "Actors", "Languages"}

func MigrateMovies(db *gorm.DB) error {
	return db.AutoMigrate(&Country{}, &Genre{}, &Actor{}, &Language{}, &Movie{})
}
