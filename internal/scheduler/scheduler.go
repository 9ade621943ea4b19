package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/vocabot/internal/database"
	"github.com/go-co-op/gocron"
)

// DefaultReminderHour is the local hour practice reminders go out when
// REMINDER_HOUR is not configured.
const DefaultReminderHour = 19

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier interface for sending practice reminders
type Notifier interface {
	SendPracticeReminder(userID int64) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check so a changed REMINDER_HOUR takes effect without restart
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders nudges every known learner once the reminder hour
// is reached.
func (s *Scheduler) checkAndSendReminders() {
	reminderHour := DefaultReminderHour
	if hourStr := os.Getenv("REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			reminderHour = h
		}
	}

	if time.Now().Hour() != reminderHour {
		return
	}

	profileRepo := database.NewProfileRepository()
	userIDs, err := profileRepo.GetAllUserIDs()
	if err != nil {
		log.Printf("Error getting users for reminders: %v", err)
		return
	}

	for _, userID := range userIDs {
		if err := s.notifier.SendPracticeReminder(userID); err != nil {
			log.Printf("Error sending reminder to user %d: %v", userID, err)
		}
	}
}
