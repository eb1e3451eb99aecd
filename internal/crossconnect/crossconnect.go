// Package crossconnect manages ExpressRoute cross-connections and their
// peerings from the service provider side.
package crossconnect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
)

// ProvisioningStates lists the service provider provisioning states accepted
// by Update.
var ProvisioningStates = []string{"Provisioning", "Provisioned", "NotProvisioned"}

// PeeringTypes lists the peering types accepted by CreatePeering.
var PeeringTypes = []string{"AzurePrivatePeering", "MicrosoftPeering"}

// CrossConnection is the printable view of a cross-connection.
type CrossConnection struct {
	ID                               string            `json:"id"`
	Name                             string            `json:"name"`
	Location                         string            `json:"location,omitempty"`
	ProvisioningState                string            `json:"provisioningState,omitempty"`
	ServiceProviderProvisioningState string            `json:"serviceProviderProvisioningState,omitempty"`
	ServiceProviderNotes             string            `json:"serviceProviderNotes,omitempty"`
	PeeringLocation                  string            `json:"peeringLocation,omitempty"`
	BandwidthInMbps                  int32             `json:"bandwidthInMbps,omitempty"`
	STag                             int32             `json:"sTag,omitempty"`
	Circuit                          string            `json:"expressRouteCircuit,omitempty"`
	Tags                             map[string]string `json:"tags,omitempty"`
}

// Peering is the printable view of a cross-connection peering.
type Peering struct {
	ID                         string `json:"id"`
	Name                       string `json:"name"`
	PeeringType                string `json:"peeringType,omitempty"`
	State                      string `json:"state,omitempty"`
	ProvisioningState          string `json:"provisioningState,omitempty"`
	PeerASN                    int64  `json:"peerAsn,omitempty"`
	AzureASN                   int32  `json:"azureAsn,omitempty"`
	VlanID                     int32  `json:"vlanId,omitempty"`
	PrimaryPeerAddressPrefix   string `json:"primaryPeerAddressPrefix,omitempty"`
	SecondaryPeerAddressPrefix string `json:"secondaryPeerAddressPrefix,omitempty"`
}

// UpdateOptions holds the provider-side fields that can be changed. Nil and
// empty fields are left untouched.
type UpdateOptions struct {
	Notes             *string
	ProvisioningState string
}

// PeeringSpec describes a peering to create. The peering is named after its
// type.
type PeeringSpec struct {
	PeeringType                string
	PeerASN                    int64
	VlanID                     int32
	PrimaryPeerAddressPrefix   string
	SecondaryPeerAddressPrefix string
	SharedKey                  string

	// Microsoft peering only.
	AdvertisedPublicPrefixes []string
	CustomerASN              int32
	RoutingRegistryName      string
}

// Service runs cross-connection operations.
type Service struct {
	Client Client
}

// List returns the cross-connections in resourceGroup, or in the
// subscription when resourceGroup is empty.
func (s *Service) List(ctx context.Context, resourceGroup string) ([]CrossConnection, error) {
	items, err := s.Client.List(ctx, resourceGroup)
	if err != nil {
		return nil, fmt.Errorf("listing cross-connections: %w", err)
	}
	out := make([]CrossConnection, 0, len(items))
	for _, cc := range items {
		if cc != nil {
			out = append(out, toCrossConnection(cc))
		}
	}
	return out, nil
}

// Show returns one cross-connection.
func (s *Service) Show(ctx context.Context, resourceGroup, name string) (*CrossConnection, error) {
	cc, err := s.Client.Get(ctx, resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("getting cross-connection %q: %w", name, err)
	}
	view := toCrossConnection(cc)
	return &view, nil
}

// Update reads the cross-connection, applies opts and writes it back.
func (s *Service) Update(ctx context.Context, resourceGroup, name string, opts UpdateOptions) (*CrossConnection, error) {
	var state *armnetwork.ServiceProviderProvisioningState
	if opts.ProvisioningState != "" {
		v, err := parseProvisioningState(opts.ProvisioningState)
		if err != nil {
			return nil, err
		}
		state = &v
	}
	if opts.Notes == nil && state == nil {
		return nil, errors.New("nothing to update: set notes or provisioning state")
	}

	cc, err := s.Client.Get(ctx, resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("getting cross-connection %q: %w", name, err)
	}
	if cc.Properties == nil {
		cc.Properties = &armnetwork.ExpressRouteCrossConnectionProperties{}
	}
	if opts.Notes != nil {
		cc.Properties.ServiceProviderNotes = to.Ptr(*opts.Notes)
	}
	if state != nil {
		cc.Properties.ServiceProviderProvisioningState = state
	}

	updated, err := s.Client.CreateOrUpdate(ctx, resourceGroup, name, *cc)
	if err != nil {
		return nil, fmt.Errorf("updating cross-connection %q: %w", name, err)
	}
	view := toCrossConnection(updated)
	return &view, nil
}

// ListPeerings returns the peerings of a cross-connection.
func (s *Service) ListPeerings(ctx context.Context, resourceGroup, crossConnection string) ([]Peering, error) {
	items, err := s.Client.ListPeerings(ctx, resourceGroup, crossConnection)
	if err != nil {
		return nil, fmt.Errorf("listing peerings of %q: %w", crossConnection, err)
	}
	out := make([]Peering, 0, len(items))
	for _, p := range items {
		if p != nil {
			out = append(out, toPeering(p))
		}
	}
	return out, nil
}

// ShowPeering returns one peering.
func (s *Service) ShowPeering(ctx context.Context, resourceGroup, crossConnection, name string) (*Peering, error) {
	p, err := s.Client.GetPeering(ctx, resourceGroup, crossConnection, name)
	if err != nil {
		return nil, fmt.Errorf("getting peering %q of %q: %w", name, crossConnection, err)
	}
	view := toPeering(p)
	return &view, nil
}

// CreatePeering creates or replaces the peering described by spec.
func (s *Service) CreatePeering(ctx context.Context, resourceGroup, crossConnection string, spec PeeringSpec) (*Peering, error) {
	body, err := spec.build()
	if err != nil {
		return nil, err
	}
	name := string(*body.Properties.PeeringType)
	p, err := s.Client.CreateOrUpdatePeering(ctx, resourceGroup, crossConnection, name, body)
	if err != nil {
		return nil, fmt.Errorf("creating peering %q of %q: %w", name, crossConnection, err)
	}
	view := toPeering(p)
	return &view, nil
}

// DeletePeering removes one peering.
func (s *Service) DeletePeering(ctx context.Context, resourceGroup, crossConnection, name string) error {
	if err := s.Client.DeletePeering(ctx, resourceGroup, crossConnection, name); err != nil {
		return fmt.Errorf("deleting peering %q of %q: %w", name, crossConnection, err)
	}
	return nil
}

func (spec PeeringSpec) build() (armnetwork.ExpressRouteCrossConnectionPeering, error) {
	var peeringType armnetwork.ExpressRoutePeeringType
	switch {
	case strings.EqualFold(spec.PeeringType, string(armnetwork.ExpressRoutePeeringTypeAzurePrivatePeering)):
		peeringType = armnetwork.ExpressRoutePeeringTypeAzurePrivatePeering
	case strings.EqualFold(spec.PeeringType, string(armnetwork.ExpressRoutePeeringTypeMicrosoftPeering)):
		peeringType = armnetwork.ExpressRoutePeeringTypeMicrosoftPeering
	default:
		return armnetwork.ExpressRouteCrossConnectionPeering{}, fmt.Errorf("invalid peering type %q, allowed values: %s", spec.PeeringType, strings.Join(PeeringTypes, ", "))
	}
	if spec.PeerASN <= 0 {
		return armnetwork.ExpressRouteCrossConnectionPeering{}, errors.New("peer ASN is required")
	}
	if spec.VlanID <= 0 {
		return armnetwork.ExpressRouteCrossConnectionPeering{}, errors.New("VLAN ID is required")
	}
	if spec.PrimaryPeerAddressPrefix == "" || spec.SecondaryPeerAddressPrefix == "" {
		return armnetwork.ExpressRouteCrossConnectionPeering{}, errors.New("primary and secondary peer subnets are required")
	}

	props := &armnetwork.ExpressRouteCrossConnectionPeeringProperties{
		PeeringType:                to.Ptr(peeringType),
		PeerASN:                    to.Ptr(spec.PeerASN),
		VlanID:                     to.Ptr(spec.VlanID),
		PrimaryPeerAddressPrefix:   to.Ptr(spec.PrimaryPeerAddressPrefix),
		SecondaryPeerAddressPrefix: to.Ptr(spec.SecondaryPeerAddressPrefix),
	}
	if spec.SharedKey != "" {
		props.SharedKey = to.Ptr(spec.SharedKey)
	}

	if peeringType == armnetwork.ExpressRoutePeeringTypeMicrosoftPeering {
		if len(spec.AdvertisedPublicPrefixes) == 0 {
			return armnetwork.ExpressRouteCrossConnectionPeering{}, errors.New("microsoft peering requires advertised public prefixes")
		}
		cfg := &armnetwork.ExpressRouteCircuitPeeringConfig{}
		for _, prefix := range spec.AdvertisedPublicPrefixes {
			cfg.AdvertisedPublicPrefixes = append(cfg.AdvertisedPublicPrefixes, to.Ptr(prefix))
		}
		if spec.CustomerASN > 0 {
			cfg.CustomerASN = to.Ptr(spec.CustomerASN)
		}
		if spec.RoutingRegistryName != "" {
			cfg.RoutingRegistryName = to.Ptr(spec.RoutingRegistryName)
		}
		props.MicrosoftPeeringConfig = cfg
	}

	return armnetwork.ExpressRouteCrossConnectionPeering{Properties: props}, nil
}

func parseProvisioningState(s string) (armnetwork.ServiceProviderProvisioningState, error) {
	for _, allowed := range ProvisioningStates {
		if strings.EqualFold(s, allowed) {
			return armnetwork.ServiceProviderProvisioningState(allowed), nil
		}
	}
	return "", fmt.Errorf("invalid provisioning state %q, allowed values: %s", s, strings.Join(ProvisioningStates, ", "))
}

func toCrossConnection(cc *armnetwork.ExpressRouteCrossConnection) CrossConnection {
	view := CrossConnection{
		ID:       deref(cc.ID),
		Name:     deref(cc.Name),
		Location: deref(cc.Location),
	}
	if len(cc.Tags) > 0 {
		view.Tags = make(map[string]string, len(cc.Tags))
		for k, v := range cc.Tags {
			view.Tags[k] = deref(v)
		}
	}
	p := cc.Properties
	if p == nil {
		return view
	}
	if p.ProvisioningState != nil {
		view.ProvisioningState = string(*p.ProvisioningState)
	}
	if p.ServiceProviderProvisioningState != nil {
		view.ServiceProviderProvisioningState = string(*p.ServiceProviderProvisioningState)
	}
	view.ServiceProviderNotes = deref(p.ServiceProviderNotes)
	view.PeeringLocation = deref(p.PeeringLocation)
	if p.BandwidthInMbps != nil {
		view.BandwidthInMbps = *p.BandwidthInMbps
	}
	if p.STag != nil {
		view.STag = *p.STag
	}
	if p.ExpressRouteCircuit != nil {
		view.Circuit = deref(p.ExpressRouteCircuit.ID)
	}
	return view
}

func toPeering(p *armnetwork.ExpressRouteCrossConnectionPeering) Peering {
	view := Peering{ID: deref(p.ID), Name: deref(p.Name)}
	props := p.Properties
	if props == nil {
		return view
	}
	if props.PeeringType != nil {
		view.PeeringType = string(*props.PeeringType)
	}
	if props.State != nil {
		view.State = string(*props.State)
	}
	if props.ProvisioningState != nil {
		view.ProvisioningState = string(*props.ProvisioningState)
	}
	if props.PeerASN != nil {
		view.PeerASN = *props.PeerASN
	}
	if props.AzureASN != nil {
		view.AzureASN = *props.AzureASN
	}
	if props.VlanID != nil {
		view.VlanID = *props.VlanID
	}
	view.PrimaryPeerAddressPrefix = deref(props.PrimaryPeerAddressPrefix)
	view.SecondaryPeerAddressPrefix = deref(props.SecondaryPeerAddressPrefix)
	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
