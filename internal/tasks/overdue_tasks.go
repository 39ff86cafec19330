package tasks

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"gymdesk/internal/membership"
	"gymdesk/internal/models"
	"gymdesk/internal/services"
	"gymdesk/internal/store"
)

// SendDueRemindersTaskDef scans for members whose renewal date has
// passed and emails a summary to the gym admin. It never mutates member
// rows; overdue is derived at read time and only a recorded payment
// changes a member's paid state.
type SendDueRemindersTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendDueRemindersTaskDef) TaskID() string {
	return "send_due_reminders"
}

// CreateTask builds the recurring reminder scan. interval is an RFC
// 5545 RRULE, typically FREQ=DAILY.
func (t *SendDueRemindersTaskDef) CreateTask(firstDue time.Time, interval string) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, firstDue, &interval, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution lists overdue members and sends the reminder email
func (t *SendDueRemindersTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	recipient, _ := task.Arguments["recipient"].(string)
	if recipient == "" {
		recipient = os.Getenv("ADMIN_EMAIL")
	}
	if recipient == "" {
		return nil, fmt.Errorf("no reminder recipient configured")
	}

	today := time.Now()
	overdue, err := store.New(db).ListOverdueCustomers(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue members: %w", err)
	}

	if len(overdue) == 0 {
		return map[string]interface{}{
			"status":        "skipped",
			"overdue_count": 0,
		}, nil
	}

	subject := fmt.Sprintf("%d overdue membership(s) as of %s", len(overdue), membership.FormatDisplayDate(today))
	body := buildReminderBody(overdue, today)

	email := services.NewEmailService()
	if err := email.SendEmail([]string{recipient}, subject, body); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":        "success",
		"overdue_count": len(overdue),
		"recipient":     recipient,
	}, nil
}

// buildReminderBody renders one line per overdue member
func buildReminderBody(overdue []models.Customer, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Members past their renewal date as of %s:\n\n", membership.FormatDisplayDate(today))
	for _, customer := range overdue {
		fmt.Fprintf(&b, "- %s (%s): %s plan, due %s\n",
			customer.Name, customer.Phone,
			customer.MembershipPlan,
			membership.FormatDisplayDate(customer.NextPaymentDate.Time))
	}
	return b.String()
}

// SendDueRemindersTask is the singleton instance of SendDueRemindersTaskDef
var SendDueRemindersTask = &SendDueRemindersTaskDef{}
