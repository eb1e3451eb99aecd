// Package deploy submits resolved ARM templates to a resource group.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/google/uuid"

	"github.com/kjourdan1/meshctl/internal/armparams"
)

// ErrDeploymentFailed is returned when ARM reports a failed deployment or a
// failed validation.
var ErrDeploymentFailed = errors.New("deployment failed")

// ModeIncremental is the only mode submitted. Service Fabric Mesh rejects
// complete-mode deployments.
const ModeIncremental = "Incremental"

// Logger is the logging capability the deployer needs.
type Logger interface {
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

// Request describes one deployment.
type Request struct {
	ResourceGroup string
	Name          string

	// Exactly one of Template and TemplateLink is set.
	Template     map[string]any
	TemplateLink string

	Parameters *armparams.Parameters

	// Mode is the requested mode. Anything but Incremental is overridden.
	Mode string

	ValidateOnly bool
	NoWait       bool
}

// Result is the outcome of a deployment.
type Result struct {
	Name              string        `json:"name"`
	ResourceGroup     string        `json:"resourceGroup"`
	Status            string        `json:"status"`
	ProvisioningState string        `json:"provisioningState,omitempty"`
	CorrelationID     string        `json:"correlationId,omitempty"`
	Duration          string        `json:"duration,omitempty"`
	Elapsed           time.Duration `json:"-"`
	Outputs           any           `json:"outputs,omitempty"`
}

// Deployer submits deployments through a DeploymentsClient.
type Deployer struct {
	Client DeploymentsClient
	Logger Logger
}

// DefaultName derives a deployment name from the template file name, falling
// back to a generated one.
func DefaultName(templateFile string) string {
	if templateFile != "" {
		base := filepath.Base(templateFile)
		if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
			return name
		}
	}
	return "meshctl-" + uuid.NewString()[:8]
}

// Deploy validates or creates the deployment described by req.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	if req.ResourceGroup == "" {
		return nil, errors.New("resource group is required")
	}
	if (req.Template == nil) == (req.TemplateLink == "") {
		return nil, errors.New("exactly one of template body or template link is required")
	}
	if req.Name == "" {
		req.Name = DefaultName("")
	}
	if req.Mode != "" && !strings.EqualFold(req.Mode, ModeIncremental) {
		d.warn("Deployment mode overridden", "requested", req.Mode, "mode", ModeIncremental)
	}

	deployment := buildDeployment(req)
	start := time.Now()

	if req.ValidateOnly {
		d.info("Validating deployment", "name", req.Name, "resourceGroup", req.ResourceGroup)
		vr, err := d.Client.Validate(ctx, req.ResourceGroup, req.Name, deployment, !req.NoWait)
		if err != nil {
			return nil, fmt.Errorf("validating deployment %q in resource group %q: %w", req.Name, req.ResourceGroup, err)
		}
		if vr.Error != nil {
			return nil, fmt.Errorf("%w: validation of %q: %s", ErrDeploymentFailed, req.Name, describeError(vr.Error))
		}
		res := newResult(req, vr.Properties, time.Since(start))
		res.Status = "Valid"
		if req.NoWait {
			res.Status = "Accepted"
		}
		return res, nil
	}

	d.info("Creating deployment", "name", req.Name, "resourceGroup", req.ResourceGroup)
	ext, err := d.Client.CreateOrUpdate(ctx, req.ResourceGroup, req.Name, deployment, !req.NoWait)
	if err != nil {
		return nil, fmt.Errorf("creating deployment %q in resource group %q: %w", req.Name, req.ResourceGroup, err)
	}
	res := newResult(req, ext.Properties, time.Since(start))
	if ext.Properties != nil && ext.Properties.Error != nil {
		return res, fmt.Errorf("%w: %q: %s", ErrDeploymentFailed, req.Name, describeError(ext.Properties.Error))
	}
	if res.ProvisioningState == string(armresources.ProvisioningStateFailed) {
		return res, fmt.Errorf("%w: %q ended in state %s", ErrDeploymentFailed, req.Name, res.ProvisioningState)
	}
	return res, nil
}

// Show returns the current state of a deployment.
func (d *Deployer) Show(ctx context.Context, resourceGroup, name string) (*Result, error) {
	ext, err := d.Client.Get(ctx, resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("getting deployment %q in resource group %q: %w", name, resourceGroup, err)
	}
	return newResult(Request{ResourceGroup: resourceGroup, Name: name}, ext.Properties, 0), nil
}

func buildDeployment(req Request) armresources.Deployment {
	params := req.Parameters
	if params == nil {
		params = armparams.NewParameters()
	}
	props := &armresources.DeploymentProperties{
		Mode:       to.Ptr(armresources.DeploymentModeIncremental),
		Parameters: params,
	}
	if req.TemplateLink != "" {
		props.TemplateLink = &armresources.TemplateLink{URI: to.Ptr(req.TemplateLink)}
	} else {
		props.Template = req.Template
	}
	return armresources.Deployment{Properties: props}
}

func newResult(req Request, props *armresources.DeploymentPropertiesExtended, elapsed time.Duration) *Result {
	res := &Result{
		Name:          req.Name,
		ResourceGroup: req.ResourceGroup,
		Status:        "Succeeded",
		Elapsed:       elapsed,
	}
	if props == nil {
		return res
	}
	if props.ProvisioningState != nil {
		res.ProvisioningState = string(*props.ProvisioningState)
		res.Status = res.ProvisioningState
	}
	if props.CorrelationID != nil {
		res.CorrelationID = *props.CorrelationID
	}
	if props.Duration != nil {
		res.Duration = *props.Duration
	}
	res.Outputs = props.Outputs
	return res
}

func describeError(e *armresources.ErrorResponse) string {
	var parts []string
	if e.Code != nil {
		parts = append(parts, *e.Code)
	}
	if e.Message != nil {
		parts = append(parts, *e.Message)
	}
	for _, detail := range e.Details {
		if detail != nil {
			parts = append(parts, describeError(detail))
		}
	}
	if len(parts) == 0 {
		return "unknown error"
	}
	return strings.Join(parts, ": ")
}

func (d *Deployer) info(msg string, keyvals ...interface{}) {
	if d.Logger != nil {
		d.Logger.Info(msg, keyvals...)
	}
}

func (d *Deployer) warn(msg string, keyvals ...interface{}) {
	if d.Logger != nil {
		d.Logger.Warn(msg, keyvals...)
	}
}
