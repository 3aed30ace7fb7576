package world

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser/fake"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/onsi/gomega"
)

var testOptions = Options{
	Launch: browser.LaunchOptions{Engine: browser.Chromium, Headless: true},
	Pages:  pages.Options{BaseURL: "https://www.saucedemo.com", VerifyTimeout: time.Second},
}

func TestScenarioContext_Setup(t *testing.T) {
	launchErr := goerrors.New("executable doesn't exist at /ms-playwright/chromium")
	tests := []struct {
		name         string
		launcher     *fake.Launcher
		wantErr      bool
		wantEvents   []string
		wantSessions int
	}{
		{
			name:         "should acquire a session, a context and a page",
			launcher:     &fake.Launcher{},
			wantEvents:   []string{"launch", "new-context", "new-page"},
			wantSessions: 1,
		},
		{
			name:       "should hold nothing when the launch fails",
			launcher:   &fake.Launcher{LaunchErr: launchErr},
			wantErr:    true,
			wantEvents: []string{"launch"},
		},
		{
			name:       "should release the session when the context cannot be created",
			launcher:   &fake.Launcher{ContextErr: goerrors.New("browser has been closed")},
			wantErr:    true,
			wantEvents: []string{"launch", "new-context", "close"},
		},
		{
			name:       "should release the session when the page cannot be opened",
			launcher:   &fake.Launcher{PageErr: goerrors.New("target crashed")},
			wantErr:    true,
			wantEvents: []string{"launch", "new-context", "new-page", "close"},
		},
	}

	for _, testcase := range tests {
		tt := testcase
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			w := New(tt.launcher, testOptions)

			err := w.Setup(context.Background())
			g.Expect(err != nil).To(gomega.Equal(tt.wantErr))
			g.Expect(tt.launcher.Events()).To(gomega.Equal(tt.wantEvents))
			g.Expect(tt.launcher.OpenSessions()).To(gomega.Equal(tt.wantSessions))
			g.Expect(w.Live()).To(gomega.Equal(!tt.wantErr))

			if tt.wantErr {
				g.Expect(errors.HasCode(err, errors.ErrorSetup)).To(gomega.BeTrue())
				g.Expect(w.session).To(gomega.BeNil())
				g.Expect(w.registry).To(gomega.BeNil())
			} else {
				g.Expect(w.session).ToNot(gomega.BeNil())
				g.Expect(w.registry).ToNot(gomega.BeNil())
			}
		})
	}
}

func TestScenarioContext_SetupNamesTheReason(t *testing.T) {
	g := gomega.NewWithT(t)
	launcher := &fake.Launcher{LaunchErr: goerrors.New("executable doesn't exist")}
	w := New(launcher, testOptions)

	err := w.Setup(context.Background())
	g.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("executable doesn't exist")))
	g.Expect(goerrors.Is(err, launcher.LaunchErr)).To(gomega.BeTrue())
}

func TestScenarioContext_Teardown(t *testing.T) {
	tests := []struct {
		name     string
		launcher *fake.Launcher
		setup    bool
	}{
		{
			name:     "should release the session",
			launcher: &fake.Launcher{},
			setup:    true,
		},
		{
			name:     "should swallow release errors",
			launcher: &fake.Launcher{CloseErr: goerrors.New("browser process already exited")},
			setup:    true,
		},
		{
			name:     "should be a no-op without a session",
			launcher: &fake.Launcher{},
		},
	}

	for _, testcase := range tests {
		tt := testcase
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			w := New(tt.launcher, testOptions)
			if tt.setup {
				g.Expect(w.Setup(context.Background())).To(gomega.Succeed())
			}

			w.Teardown(context.Background())
			w.Teardown(context.Background())

			g.Expect(w.Live()).To(gomega.BeFalse())
			g.Expect(tt.launcher.OpenSessions()).To(gomega.BeZero())
			for _, s := range tt.launcher.Sessions() {
				g.Expect(s.CloseCount()).To(gomega.Equal(1))
			}
			_, err := w.Pages()
			g.Expect(errors.HasCode(err, errors.ErrorNotInitialized)).To(gomega.BeTrue())
		})
	}
}

func TestScenarioContext_PageObjectBeforeSetup(t *testing.T) {
	g := gomega.NewWithT(t)
	w := New(&fake.Launcher{}, testOptions)

	for _, id := range pages.PageIDs {
		_, err := w.PageObject(id)
		g.Expect(errors.HasCode(err, errors.ErrorNotInitialized)).To(gomega.BeTrue(), "page %s", id)
	}
	_, err := w.Page()
	g.Expect(errors.HasCode(err, errors.ErrorNotInitialized)).To(gomega.BeTrue())
	_, err = w.Screenshot(context.Background())
	g.Expect(errors.HasCode(err, errors.ErrorNotInitialized)).To(gomega.BeTrue())
}

func TestScenarioContext_PageObjectAfterFailedSetup(t *testing.T) {
	g := gomega.NewWithT(t)
	w := New(&fake.Launcher{LaunchErr: goerrors.New("no display")}, testOptions)
	g.Expect(w.Setup(context.Background())).ToNot(gomega.Succeed())

	for _, id := range pages.PageIDs {
		_, err := w.PageObject(id)
		g.Expect(errors.HasCode(err, errors.ErrorNotInitialized)).To(gomega.BeTrue(), "page %s", id)
	}
}

func TestScenarioContext_PageObjectsShareThePage(t *testing.T) {
	g := gomega.NewWithT(t)
	launcher := &fake.Launcher{}
	w := New(launcher, testOptions)
	g.Expect(w.Setup(context.Background())).To(gomega.Succeed())
	defer w.Teardown(context.Background())

	for _, id := range pages.PageIDs {
		object, err := w.PageObject(id)
		g.Expect(err).ToNot(gomega.HaveOccurred())
		g.Expect(object.ID()).To(gomega.Equal(id))
	}

	shot, err := w.Screenshot(context.Background())
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(shot).To(gomega.Equal(fake.PNG))
	g.Expect(launcher.Sessions()).To(gomega.HaveLen(1))
	g.Expect(launcher.Sessions()[0].Pages()).To(gomega.HaveLen(1))
}

func TestScenarioContext_LateSessionIsReleased(t *testing.T) {
	g := gomega.NewWithT(t)
	launcher := &fake.Launcher{LaunchDelay: 50 * time.Millisecond, IgnoreCancel: true}
	w := New(launcher, testOptions)

	done := make(chan error, 1)
	go func() {
		done <- w.Setup(context.Background())
	}()
	w.Teardown(context.Background())

	err := <-done
	g.Expect(errors.HasCode(err, errors.ErrorSetup)).To(gomega.BeTrue())
	g.Expect(w.Live()).To(gomega.BeFalse())
	g.Expect(launcher.OpenSessions()).To(gomega.BeZero())
}
