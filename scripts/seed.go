package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"kaifacademy/config"
	"kaifacademy/database"
	"kaifacademy/models"
	courseModels "kaifacademy/models/course"
	"kaifacademy/services"
	"kaifacademy/utils"

	"gorm.io/gorm"
)

// Seeds an admin and a starter catalog. An optional CSV path replaces the built-in courses;
// its header must be: title,description,shortDesc,price,originalPrice,category,level,duration,language
func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	if err := seedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	courses := defaultCourses()
	if len(os.Args) > 1 {
		var err error
		courses, err = readCourses(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", os.Args[1], err)
		}
	}

	created := 0
	for _, in := range courses {
		var existing courseModels.Course
		err := db.Where("title = ?", in.Title).First(&existing).Error
		if err == nil {
			log.Printf("Skipping existing course %q", in.Title)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up course %q: %v", in.Title, err)
		}

		course, err := services.CreateCourse(db, in)
		if err != nil {
			log.Fatalf("Failed to create course %q: %v", in.Title, err)
		}
		if err := seedContent(db, course); err != nil {
			log.Fatalf("Failed to create content for %q: %v", in.Title, err)
		}
		created++
	}

	log.Printf("Database seeded successfully! %d courses created.", created)
}

func seedAdmin(db *gorm.DB) error {
	email := strings.ToLower(getEnv("SEED_ADMIN_EMAIL", "mdkaif0611@gmail.com"))

	var admin models.User
	err := db.Where("email = ?", email).First(&admin).Error
	if err == nil {
		log.Printf("Admin %s already exists", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password, err := utils.HashPassword(getEnv("SEED_ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}
	admin = models.User{
		Name:       "MD Kaif",
		Email:      email,
		Phone:      "8269887132",
		Password:   password,
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Admin %s created", email)
	return nil
}

func seedContent(db *gorm.DB, course *courseModels.Course) error {
	modules := []services.ModuleInput{
		{Title: "Getting Started", Description: "Introduction to the course"},
		{Title: "Core Concepts", Description: "Learn the fundamental concepts"},
	}
	for _, m := range modules {
		module, err := services.CreateModule(db, course.ID, m)
		if err != nil {
			return err
		}
		lessons := []services.LessonInput{
			{
				Title:     "Introduction",
				Content:   fmt.Sprintf("<p>Welcome to %s! This lesson will give you an overview of what you'll learn.</p>", course.Title),
				Duration:  15,
				Type:      courseModels.LessonTypeVideo,
				IsPreview: true,
			},
			{
				Title:    "Basic Concepts",
				Content:  "<p>In this lesson, we'll cover the basic concepts you need to know.</p>",
				Duration: 25,
				Type:     courseModels.LessonTypeVideo,
			},
		}
		for _, l := range lessons {
			if _, err := services.CreateLesson(db, module.ID, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func defaultCourses() []services.CourseInput {
	price := func(v float64) *float64 { return &v }
	return []services.CourseInput{
		{
			Title:         "Complete Web Development Bootcamp",
			Description:   "Master modern web development with React, Node.js, and MongoDB",
			ShortDesc:     "Full-stack web development course",
			Price:         999,
			OriginalPrice: price(2999),
			Category:      "Web Development",
			Level:         courseModels.LevelBeginner,
			Duration:      40,
			Language:      "Hindi",
			IsPublished:   true,
			IsFeatured:    true,
		},
		{
			Title:         "Python Programming Masterclass",
			Description:   "Learn Python from scratch to advanced level with real projects",
			ShortDesc:     "Complete Python programming course",
			Price:         799,
			OriginalPrice: price(2499),
			Category:      "Python",
			Level:         courseModels.LevelBeginner,
			Duration:      35,
			Language:      "Hindi",
			IsPublished:   true,
			IsFeatured:    true,
		},
		{
			Title:         "Data Science & Machine Learning",
			Description:   "Complete Data Science and Machine Learning course with Python",
			ShortDesc:     "Data Science and AI course",
			Price:         1299,
			OriginalPrice: price(3999),
			Category:      "Data Science",
			Level:         courseModels.LevelIntermediate,
			Duration:      50,
			Language:      "Hindi",
			IsPublished:   true,
			IsFeatured:    true,
		},
	}
}

func readCourses(path string) ([]services.CourseInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("CSV file is empty or has only headers")
	}

	// Map header names to column indexes
	columns := make(map[string]int)
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		if i, ok := columns[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var courses []services.CourseInput
	for line, row := range records[1:] {
		in := services.CourseInput{
			Title:       field(row, "title"),
			Description: field(row, "description"),
			ShortDesc:   field(row, "shortDesc"),
			Category:    field(row, "category"),
			Level:       strings.ToUpper(field(row, "level")),
			Language:    field(row, "language"),
			IsPublished: true,
		}
		if in.Title == "" {
			log.Printf("Skipping row %d: missing title", line+2)
			continue
		}
		if in.Level == "" {
			in.Level = courseModels.LevelBeginner
		}
		if v, err := strconv.ParseFloat(field(row, "price"), 64); err == nil {
			in.Price = v
		}
		if v, err := strconv.ParseFloat(field(row, "originalPrice"), 64); err == nil {
			in.OriginalPrice = &v
		}
		if v, err := strconv.Atoi(field(row, "duration")); err == nil {
			in.Duration = v
		}
		courses = append(courses, in)
	}
	return courses, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
