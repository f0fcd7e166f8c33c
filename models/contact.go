package models

import "time"

const ContactStatusUnread = "unread"

// Contact is a message left through the public contact form.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// LibraryStats backs the admin dashboard.
type LibraryStats struct {
	TotalBooks       int     `json:"totalBooks"`
	TotalUsers       int     `json:"totalUsers"`
	TotalDownloads   int     `json:"totalDownloads"`
	AverageRating    float64 `json:"averageRating"`
	NewUsersThisWeek int     `json:"newUsersThisWeek"`
	RecentBooks      []Book  `json:"recentBooks"`
}
