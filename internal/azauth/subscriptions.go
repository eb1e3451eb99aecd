package azauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
)

// Subscription holds basic info about an Azure subscription.
type Subscription struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TenantID string `json:"tenantId"`
	State    string `json:"state"`
}

// SubscriptionLister lists the subscriptions visible to a credential.
type SubscriptionLister interface {
	List(ctx context.Context) ([]Subscription, error)
}

// Chooser asks the user to pick one of options and returns its index.
type Chooser interface {
	Choose(message, help string, options []string) (int, error)
}

type armSubscriptionLister struct {
	client *armsubscriptions.Client
}

// NewSubscriptionLister lists subscriptions through Azure Resource Manager.
func NewSubscriptionLister(cred azcore.TokenCredential) (SubscriptionLister, error) {
	c, err := armsubscriptions.NewClient(cred, nil)
	if err != nil {
		return nil, err
	}
	return &armSubscriptionLister{client: c}, nil
}

func (a *armSubscriptionLister) List(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	pager := a.client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing subscriptions: %w", err)
		}
		for _, s := range page.Value {
			if s == nil {
				continue
			}
			sub := Subscription{ID: deref(s.SubscriptionID), Name: deref(s.DisplayName), TenantID: deref(s.TenantID)}
			if s.State != nil {
				sub.State = string(*s.State)
			}
			out = append(out, sub)
		}
	}
	return out, nil
}

// ErrNoSubscription is returned when no enabled subscription is visible.
var ErrNoSubscription = errors.New("no enabled Azure subscription found; pass --subscription or run 'az account set'")

// ResolveSubscription picks the subscription to operate on. An explicit ID
// wins, then the enabled Azure CLI default, then the only enabled
// subscription the lister returns. With several candidates the chooser
// decides; a nil chooser is an error.
func ResolveSubscription(ctx context.Context, explicit string, lister SubscriptionLister, chooser Chooser) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if acct, err := CLIAccount(ctx); err == nil && enabled(acct.State) {
		return acct.SubscriptionID, nil
	}
	if lister == nil {
		return "", ErrNoSubscription
	}

	all, err := lister.List(ctx)
	if err != nil {
		return "", err
	}
	var candidates []Subscription
	for _, s := range all {
		if enabled(s.State) {
			candidates = append(candidates, s)
		}
	}

	switch len(candidates) {
	case 0:
		return "", ErrNoSubscription
	case 1:
		return candidates[0].ID, nil
	}
	if chooser == nil {
		return "", fmt.Errorf("%d subscriptions available; pass --subscription to pick one", len(candidates))
	}

	options := make([]string, len(candidates))
	for i, s := range candidates {
		options[i] = fmt.Sprintf("%s (%s)", s.Name, s.ID)
	}
	idx, err := chooser.Choose("Select the subscription to use:", "Set a default with 'meshctl configure --subscription <id>'", options)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(candidates) {
		return "", fmt.Errorf("subscription choice %d out of range", idx)
	}
	return candidates[idx].ID, nil
}

// enabled treats an unknown state as usable.
func enabled(state string) bool {
	return state == "" || strings.EqualFold(state, string(armsubscriptions.SubscriptionStateEnabled))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
