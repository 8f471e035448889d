package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cardkeeper/internal/client/forms"
	"github.com/dmitrijs2005/cardkeeper/internal/client/navigation"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

// readSecret hides input on a terminal and falls back to a plain line read
// when stdin is piped.
func (a *App) readSecret(prompt string) (string, error) {
	if !stdinIsTerminal() {
		return GetSimpleText(a.reader, prompt, a.out)
	}
	pw, err := GetPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	s := string(pw)
	common.WipeByteArray(pw)
	return s, nil
}

// showFormError prints validation messages and swallows the error so the
// user stays on the current screen.
func (a *App) showFormError(err error) error {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		a.println("Please fix:", ve.Error())
		return nil
	}
	return err
}

// Next finishes onboarding.
func (a *App) Next(ctx context.Context) error {
	if err := a.session.CompleteOnboarding(ctx); err != nil {
		return err
	}
	a.syncRoute(ctx)
	a.println("Scan business cards, keep every contact in one place.")
	return nil
}

// Login asks for credentials and signs the user in.
func (a *App) Login(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteLogin)

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	if err := forms.Validate(forms.LoginForm{Email: email, Password: password}); err != nil {
		return a.showFormError(err)
	}

	a.println("Signing in...")
	if err := a.session.Login(ctx, email, password); err != nil {
		a.println("Login failed:", a.session.LastError())
		return nil
	}

	a.printf("Welcome back, %s!\n", a.session.User().Name)
	a.syncRoute(ctx)
	return nil
}

// Register collects the sign up form and creates the account.
func (a *App) Register(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteRegister)

	var f forms.RegisterForm
	var err error

	if f.Name, err = GetSimpleText(a.reader, "Full name", a.out); err != nil {
		return err
	}
	if f.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if f.Password, err = a.readSecret("Password"); err != nil {
		return err
	}
	if f.ConfirmPassword, err = a.readSecret("Confirm password"); err != nil {
		return err
	}
	if f.AcceptTerms, err = GetYesNo(a.reader, "I agree to the Terms of Service and Privacy Policy", a.out); err != nil {
		return err
	}

	if err := forms.Validate(f); err != nil {
		return a.showFormError(err)
	}

	a.println("Creating account...")
	if err := a.session.Register(ctx, f.Name, f.Email, f.Password); err != nil {
		a.println("Registration failed:", a.session.LastError())
		return nil
	}

	a.syncRoute(ctx)
	return nil
}

// ThankYouContinue leaves the thank-you screen.
func (a *App) ThankYouContinue(ctx context.Context) error {
	if err := a.session.CompleteThankYou(ctx); err != nil {
		return err
	}
	a.syncRoute(ctx)
	a.println("Go Premium: unlimited contacts and CSV export.")
	return nil
}

// Subscribe simulates a purchase on the paywall.
func (a *App) Subscribe(ctx context.Context) error {
	if err := a.entitlement.SetPremium(ctx, true); err != nil {
		return err
	}
	if err := a.session.CompletePaywall(ctx); err != nil {
		return err
	}
	a.println("Welcome to Premium!")
	a.syncRoute(ctx)
	return nil
}

// SkipPaywall continues on the free plan.
func (a *App) SkipPaywall(ctx context.Context) error {
	if err := a.session.CompletePaywall(ctx); err != nil {
		return err
	}
	st := a.entitlement.State()
	a.printf("Free plan: up to %d contacts.\n", st.MaxFreeContacts)
	a.syncRoute(ctx)
	return nil
}
