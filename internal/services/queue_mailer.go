package services

import (
	"github.com/google/uuid"

	"github.com/MuhammadUsmanGM/ChatUp/pkg/rabbitmq"
)

// QueueMailer implements Mailer by publishing jobs to RabbitMQ instead of
// talking to the SMTP server inline. A consumer started in main performs the
// actual sends.
type QueueMailer struct {
	mq *rabbitmq.Client
}

// NewQueueMailer creates a new QueueMailer.
func NewQueueMailer(mq *rabbitmq.Client) *QueueMailer {
	return &QueueMailer{mq: mq}
}

// SendVerificationEmail queues a verification email job.
func (m *QueueMailer) SendVerificationEmail(email, name, token string) error {
	return m.mq.PublishEmailJob(rabbitmq.EmailJob{
		ID:    uuid.New().String(),
		Kind:  rabbitmq.JobVerification,
		To:    email,
		Name:  name,
		Token: token,
	})
}

// SendPasswordResetEmail queues a password reset email job.
func (m *QueueMailer) SendPasswordResetEmail(email, name, token string) error {
	return m.mq.PublishEmailJob(rabbitmq.EmailJob{
		ID:    uuid.New().String(),
		Kind:  rabbitmq.JobPasswordReset,
		To:    email,
		Name:  name,
		Token: token,
	})
}

// SendSupportEmail queues a support request email job.
func (m *QueueMailer) SendSupportEmail(email, name, message string) error {
	return m.mq.PublishEmailJob(rabbitmq.EmailJob{
		ID:      uuid.New().String(),
		Kind:    rabbitmq.JobSupport,
		To:      email,
		Name:    name,
		Message: message,
	})
}

// DispatchEmailJob routes a dequeued job to the right SMTPMailer method.
func DispatchEmailJob(mailer *SMTPMailer, job rabbitmq.EmailJob) error {
	switch job.Kind {
	case rabbitmq.JobVerification:
		return mailer.SendVerificationEmail(job.To, job.Name, job.Token)
	case rabbitmq.JobPasswordReset:
		return mailer.SendPasswordResetEmail(job.To, job.Name, job.Token)
	case rabbitmq.JobSupport:
		return mailer.SendSupportEmail(job.To, job.Name, job.Message)
	default:
		// Unknown kinds are dropped rather than requeued forever.
		return nil
	}
}
