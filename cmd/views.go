package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kjourdan1/meshctl/internal/crossconnect"
	"github.com/kjourdan1/meshctl/internal/deploy"
	"github.com/kjourdan1/meshctl/internal/mesh"
)

// Table layouts for command results. JSON and YAML output use the wrapped
// values directly.

type deploymentView struct {
	*deploy.Result
}

func (v deploymentView) MarshalJSON() ([]byte, error) { return json.Marshal(v.Result) }

func (v deploymentView) Headers() []string {
	return []string{"Name", "Resource Group", "Status", "State", "Duration", "Correlation ID"}
}

func (v deploymentView) Rows() [][]string {
	return [][]string{{v.Name, v.ResourceGroup, v.Status, v.ProvisioningState, v.Duration, v.CorrelationID}}
}

type resourcesView []mesh.Resource

func (v resourcesView) Headers() []string {
	return []string{"Name", "Type", "Location", "State"}
}

func (v resourcesView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		rows = append(rows, []string{r.Name, r.Type, r.Location, r.ProvisioningState})
	}
	return rows
}

type resourceView struct {
	*mesh.Resource
}

func (v resourceView) MarshalJSON() ([]byte, error) { return json.Marshal(v.Resource) }

func (v resourceView) Headers() []string { return resourcesView{}.Headers() }

func (v resourceView) Rows() [][]string { return resourcesView{*v.Resource}.Rows() }

type crossConnectionsView []crossconnect.CrossConnection

func (v crossConnectionsView) Headers() []string {
	return []string{"Name", "Location", "Peering Location", "Bandwidth", "Provider State", "State"}
}

func (v crossConnectionsView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, c := range v {
		bandwidth := ""
		if c.BandwidthInMbps > 0 {
			bandwidth = fmt.Sprintf("%d Mbps", c.BandwidthInMbps)
		}
		rows = append(rows, []string{c.Name, c.Location, c.PeeringLocation, bandwidth, c.ServiceProviderProvisioningState, c.ProvisioningState})
	}
	return rows
}

type crossConnectionView struct {
	*crossconnect.CrossConnection
}

func (v crossConnectionView) MarshalJSON() ([]byte, error) { return json.Marshal(v.CrossConnection) }

func (v crossConnectionView) Headers() []string { return crossConnectionsView{}.Headers() }

func (v crossConnectionView) Rows() [][]string {
	return crossConnectionsView{*v.CrossConnection}.Rows()
}

type peeringsView []crossconnect.Peering

func (v peeringsView) Headers() []string {
	return []string{"Name", "State", "Peer ASN", "VLAN", "Primary Prefix", "Secondary Prefix", "Provisioning"}
}

func (v peeringsView) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, p := range v {
		rows = append(rows, []string{
			p.Name, p.State, formatInt(p.PeerASN), formatInt(int64(p.VlanID)),
			p.PrimaryPeerAddressPrefix, p.SecondaryPeerAddressPrefix, p.ProvisioningState,
		})
	}
	return rows
}

type peeringView struct {
	*crossconnect.Peering
}

func (v peeringView) MarshalJSON() ([]byte, error) { return json.Marshal(v.Peering) }

func (v peeringView) Headers() []string { return peeringsView{}.Headers() }

func (v peeringView) Rows() [][]string { return peeringsView{*v.Peering}.Rows() }

func formatInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
