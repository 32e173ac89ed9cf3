package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"parkwise-backend/internal/utils"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) SendReservationConfirmation(ctx context.Context, email, name, spotNumber, plate string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour vehicle %s is now parked at spot %s.\n\nBest regards,\nThe Parkwise Team", name, plate, spotNumber)
	return s.send(email, fmt.Sprintf("Parking started at spot %s", spotNumber), body)
}

func (s *emailService) SendParkingReceipt(ctx context.Context, email, name, spotNumber string, amountCents int64, entryTime, exitTime time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour stay at spot %s is complete.\n\nEntry: %s\nExit: %s\nTotal: %s\n\nBest regards,\nThe Parkwise Team",
		name, spotNumber,
		entryTime.Format(time.RFC1123),
		exitTime.Format(time.RFC1123),
		utils.FormatCents(amountCents),
	)
	return s.send(email, "Your parking receipt", body)
}

func (s *emailService) SendOverstayReminder(ctx context.Context, email, name, spotNumber string, expectedExit time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour reservation at spot %s was expected to end at %s and is still active. Additional time keeps accruing charges.\n\nBest regards,\nThe Parkwise Team",
		name, spotNumber, expectedExit.Format(time.RFC1123),
	)
	return s.send(email, fmt.Sprintf("Reminder: spot %s still occupied", spotNumber), body)
}
