// Package mesh manages Service Fabric Mesh applications, networks and volumes
// through the generic ARM resource API.
package mesh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

const (
	// Namespace is the Service Fabric Mesh resource provider.
	Namespace = "Microsoft.ServiceFabricMesh"

	// DefaultAPIVersion is the provider API version used unless configured.
	DefaultAPIVersion = "2018-09-01-preview"
)

// ResourceType is a Service Fabric Mesh resource type.
type ResourceType string

const (
	Applications ResourceType = "applications"
	Networks     ResourceType = "networks"
	Volumes      ResourceType = "volumes"
)

// Filter returns the OData filter that selects resources of type t.
func (t ResourceType) Filter() string {
	return fmt.Sprintf("resourceType eq '%s/%s'", Namespace, t)
}

// Resource is the printable view of a mesh resource.
type Resource struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Type              string            `json:"type"`
	Location          string            `json:"location,omitempty"`
	ProvisioningState string            `json:"provisioningState,omitempty"`
	Tags              map[string]string `json:"tags,omitempty"`
	Properties        any               `json:"properties,omitempty"`
}

// Service runs mesh operations against a ResourcesClient.
type Service struct {
	Client     ResourcesClient
	APIVersion string
}

// NewService returns a Service using apiVersion, or DefaultAPIVersion when
// apiVersion is empty.
func NewService(client ResourcesClient, apiVersion string) *Service {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Service{Client: client, APIVersion: apiVersion}
}

// List returns every resource of type t in resourceGroup, or in the
// subscription when resourceGroup is empty.
func (s *Service) List(ctx context.Context, t ResourceType, resourceGroup string) ([]Resource, error) {
	items, err := s.Client.List(ctx, resourceGroup, t.Filter())
	if err != nil {
		return nil, fmt.Errorf("listing mesh %s: %w", t, err)
	}
	out := make([]Resource, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, fromExpanded(item))
		}
	}
	return out, nil
}

// Show returns one resource.
func (s *Service) Show(ctx context.Context, t ResourceType, resourceGroup, name string) (*Resource, error) {
	ref, err := s.ref(t, resourceGroup, name)
	if err != nil {
		return nil, err
	}
	res, err := s.Client.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("getting mesh %s %q: %w", singular(t), name, err)
	}
	r := fromGeneric(res)
	return &r, nil
}

// Delete removes one resource and waits for the deletion to finish.
func (s *Service) Delete(ctx context.Context, t ResourceType, resourceGroup, name string) error {
	ref, err := s.ref(t, resourceGroup, name)
	if err != nil {
		return err
	}
	if err := s.Client.Delete(ctx, ref); err != nil {
		return fmt.Errorf("deleting mesh %s %q: %w", singular(t), name, err)
	}
	return nil
}

// CreateVolume creates a volume from doc, a volume resource document, with
// its location set to location.
func (s *Service) CreateVolume(ctx context.Context, resourceGroup, name, location string, doc map[string]any) (*Resource, error) {
	if location == "" {
		return nil, errors.New("location is required")
	}
	ref, err := s.ref(Volumes, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	doc["location"] = location
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding volume document: %w", err)
	}
	var body armresources.GenericResource
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decoding volume document: %w", err)
	}
	body.Location = to.Ptr(location)

	res, err := s.Client.CreateOrUpdate(ctx, ref, body)
	if err != nil {
		return nil, fmt.Errorf("creating mesh volume %q: %w", name, err)
	}
	r := fromGeneric(res)
	return &r, nil
}

func (s *Service) ref(t ResourceType, resourceGroup, name string) (ResourceRef, error) {
	if resourceGroup == "" {
		return ResourceRef{}, errors.New("resource group is required")
	}
	if name == "" {
		return ResourceRef{}, fmt.Errorf("%s name is required", singular(t))
	}
	return ResourceRef{
		ResourceGroup: resourceGroup,
		Namespace:     Namespace,
		Type:          string(t),
		Name:          name,
		APIVersion:    s.APIVersion,
	}, nil
}

func singular(t ResourceType) string {
	switch t {
	case Applications:
		return "application"
	case Networks:
		return "network"
	case Volumes:
		return "volume"
	}
	return string(t)
}

func fromGeneric(g *armresources.GenericResource) Resource {
	r := Resource{
		ID:         deref(g.ID),
		Name:       deref(g.Name),
		Type:       deref(g.Type),
		Location:   deref(g.Location),
		Tags:       tags(g.Tags),
		Properties: g.Properties,
	}
	if props, ok := g.Properties.(map[string]any); ok {
		if state, ok := props["provisioningState"].(string); ok {
			r.ProvisioningState = state
		}
	}
	return r
}

func fromExpanded(g *armresources.GenericResourceExpanded) Resource {
	return Resource{
		ID:                deref(g.ID),
		Name:              deref(g.Name),
		Type:              deref(g.Type),
		Location:          deref(g.Location),
		ProvisioningState: deref(g.ProvisioningState),
		Tags:              tags(g.Tags),
		Properties:        g.Properties,
	}
}

func tags(in map[string]*string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = deref(v)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
