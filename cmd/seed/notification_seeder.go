package main

import (
	"mitr-be/internal/model"
	"mitr-be/pkg/events"

	"github.com/fatih/color"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var webOnly = datatypes.JSON([]byte(`["web"]`))

// SeedNotificationTypes makes sure every event the services publish has a
// template. Existing rows are left untouched so admins can edit them.
func SeedNotificationTypes(db *gorm.DB) int {
	types := []model.NotificationType{
		{
			Code:        events.UserLogin,
			DisplayName: "Login Activity",
			Template:    "You signed in from {device} at {time}",
			TargetType:  "SELF",
			Priority:    "LOW",
		},
		{
			Code:        events.AssessmentCompleted,
			DisplayName: "Check-in Saved",
			Template:    "Your GAD-7 check-in scored {score} ({severity})",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
		},
		{
			Code:        events.BookingCreated,
			DisplayName: "Session Booked",
			Template:    "Your session on {date} at {time} is confirmed",
			TargetType:  "SELF",
			Priority:    "HIGH",
		},
		{
			Code:        events.BookingCancelled,
			DisplayName: "Session Cancelled",
			Template:    "Your session on {date} at {time} was cancelled",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
		},
		{
			Code:        events.GroupMessageFlagged,
			DisplayName: "Group Message Flagged",
			Template:    "A message in the {room} room matched a crisis keyword and needs review",
			TargetType:  "ADMIN",
			Priority:    "HIGH",
		},
		{
			Code:        events.InsightGenerated,
			DisplayName: "Insight Ready",
			Template:    "Insights for your health record are ready",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
		},
		{
			Code:        events.SystemBroadcast,
			DisplayName: "Announcement",
			Template:    "{message}",
			TargetType:  "BROADCAST",
			Priority:    "MEDIUM",
		},
	}

	failed := 0
	for _, t := range types {
		t.IsActive = true
		t.Channels = webOnly
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			color.Red("  %s: %v", t.Code, err)
			failed++
			continue
		}
		color.Green("  %s", t.Code)
	}
	return failed
}

// SeedReviews adds the landing page testimonials when the table is empty.
func SeedReviews(db *gorm.DB) int {
	var count int64
	if err := db.Model(&model.Review{}).Count(&count).Error; err != nil {
		color.Red("  count reviews: %v", err)
		return 1
	}
	if count > 0 {
		color.Yellow("  %d review(s) present, skipping", count)
		return 0
	}

	reviews := []model.Review{
		{Name: "Aarav", Program: "B.Tech, 3rd year", Rating: 5, Text: "The journal prompts helped me notice when exam stress was building up."},
		{Name: "Meera", Program: "MBA, 1st year", Rating: 4, Text: "Booking a counsellor took two minutes and the session was on time."},
		{Name: "Kabir", Program: "B.Sc, 2nd year", Rating: 5, Text: "The group rooms made me feel less alone during placement season."},
	}
	if err := db.Create(&reviews).Error; err != nil {
		color.Red("  create reviews: %v", err)
		return 1
	}
	color.Green("  %d review(s) created", len(reviews))
	return 0
}
