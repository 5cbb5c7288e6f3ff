package services

import (
	"context"
	"fmt"
	"sync"

	"crm-mail-api/internal/models"
)

// fakeSender 記錄每次呼叫的 MailSender
type fakeSender struct {
	mu      sync.Mutex
	calls   []models.EmailRequest
	fail    map[string]error
	panicOn string
}

func newFakeSender() *fakeSender {
	return &fakeSender{fail: map[string]error{}}
}

func (f *fakeSender) SendMail(_ context.Context, msg *models.EmailRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *msg)
	n := len(f.calls)
	f.mu.Unlock()

	if f.panicOn != "" && msg.Recipient == f.panicOn {
		panic("provider exploded")
	}
	if err, ok := f.fail[msg.Recipient]; ok {
		return "", err
	}
	return fmt.Sprintf("<msg-%d@test.local>", n), nil
}

func (f *fakeSender) Name() string {
	return "fake"
}

func (f *fakeSender) Calls() []models.EmailRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EmailRequest(nil), f.calls...)
}

// recordingPacer 記錄每次等待時已完成的發送數
type recordingPacer struct {
	sender *fakeSender
	waits  []int
}

func (p *recordingPacer) Wait() {
	p.waits = append(p.waits, len(p.sender.Calls()))
}
