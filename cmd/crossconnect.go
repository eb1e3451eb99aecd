package cmd

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/crossconnect"
	"github.com/kjourdan1/meshctl/internal/output"
)

var crossConnectionCmd = &cobra.Command{
	Use:     "cross-connection",
	Aliases: []string{"xc"},
	Short:   "Manage ExpressRoute cross-connections as a connectivity provider",
}

var crossConnectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cross-connections in a resource group or the whole subscription",
	Args:  cobra.NoArgs,
	RunE:  runCrossConnectionList,
}

var crossConnectionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a cross-connection",
	Args:  cobra.NoArgs,
	RunE:  runCrossConnectionShow,
}

var crossConnectionUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the provider notes or provisioning state of a cross-connection",
	Example: heredoc.Doc(`
		meshctl cross-connection update -g rg-er -n xc1 --provisioning-state Provisioned
		meshctl cross-connection update -g rg-er -n xc1 --notes "circuit handed over"
	`),
	Args: cobra.NoArgs,
	RunE: runCrossConnectionUpdate,
}

var peeringCmd = &cobra.Command{
	Use:   "peering",
	Short: "Manage the peerings of a cross-connection",
}

var peeringListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the peerings of a cross-connection",
	Args:  cobra.NoArgs,
	RunE:  runPeeringList,
}

var peeringShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a peering",
	Args:  cobra.NoArgs,
	RunE:  runPeeringShow,
}

var peeringCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or replace a peering",
	Long: heredoc.Doc(`
		Create a peering on a cross-connection. The peering is named after its
		type, so a cross-connection holds at most one peering per type.

		Microsoft peering also needs --advertised-public-prefixes; the
		customer ASN and routing registry are optional.
	`),
	Example: heredoc.Doc(`
		meshctl cross-connection peering create -g rg-er --cross-connection-name xc1 \
		  --peering-type AzurePrivatePeering --peer-asn 10002 --vlan-id 103 \
		  --primary-peer-subnet 10.0.0.0/30 --secondary-peer-subnet 10.0.0.4/30
	`),
	Args: cobra.NoArgs,
	RunE: runPeeringCreate,
}

var peeringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a peering",
	Args:  cobra.NoArgs,
	RunE:  runPeeringDelete,
}

var (
	xcName              string
	xcNotes             string
	xcProvisioningState string

	peeringName string
	peeringSpec crossconnect.PeeringSpec
)

func init() {
	for _, c := range []*cobra.Command{crossConnectionShowCmd, crossConnectionUpdateCmd} {
		c.Flags().StringVarP(&xcName, "name", "n", "", "cross-connection name")
		_ = c.MarkFlagRequired("name")
	}
	crossConnectionUpdateCmd.Flags().StringVar(&xcNotes, "notes", "", "service provider notes")
	crossConnectionUpdateCmd.Flags().StringVar(&xcProvisioningState, "provisioning-state", "",
		"service provider provisioning state: "+strings.Join(crossconnect.ProvisioningStates, ", "))

	for _, c := range []*cobra.Command{peeringListCmd, peeringShowCmd, peeringCreateCmd, peeringDeleteCmd} {
		c.Flags().StringVar(&xcName, "cross-connection-name", "", "cross-connection name")
		_ = c.MarkFlagRequired("cross-connection-name")
	}
	for _, c := range []*cobra.Command{peeringShowCmd, peeringDeleteCmd} {
		c.Flags().StringVarP(&peeringName, "name", "n", "", "peering name (the peering type)")
		_ = c.MarkFlagRequired("name")
	}
	peeringDeleteCmd.Flags().BoolVarP(&meshYes, "yes", "y", false, "do not prompt for confirmation")

	f := peeringCreateCmd.Flags()
	f.StringVar(&peeringSpec.PeeringType, "peering-type", "", "peering type: "+strings.Join(crossconnect.PeeringTypes, ", "))
	f.Int64Var(&peeringSpec.PeerASN, "peer-asn", 0, "autonomous system number of the peer")
	f.Int32Var(&peeringSpec.VlanID, "vlan-id", 0, "VLAN ID")
	f.StringVar(&peeringSpec.PrimaryPeerAddressPrefix, "primary-peer-subnet", "", "/30 subnet of the primary link")
	f.StringVar(&peeringSpec.SecondaryPeerAddressPrefix, "secondary-peer-subnet", "", "/30 subnet of the secondary link")
	f.StringVar(&peeringSpec.SharedKey, "shared-key", "", "MD5 key shared with the peer")
	f.StringSliceVar(&peeringSpec.AdvertisedPublicPrefixes, "advertised-public-prefixes", nil, "public prefixes advertised over Microsoft peering")
	f.Int32Var(&peeringSpec.CustomerASN, "customer-asn", 0, "customer ASN for Microsoft peering")
	f.StringVar(&peeringSpec.RoutingRegistryName, "routing-registry-name", "", "internet routing registry for Microsoft peering")
	for _, name := range []string{"peering-type", "peer-asn", "vlan-id", "primary-peer-subnet", "secondary-peer-subnet"} {
		_ = peeringCreateCmd.MarkFlagRequired(name)
	}

	peeringCmd.AddCommand(peeringListCmd, peeringShowCmd, peeringCreateCmd, peeringDeleteCmd)
	crossConnectionCmd.AddCommand(crossConnectionListCmd, crossConnectionShowCmd, crossConnectionUpdateCmd, peeringCmd)
	rootCmd.AddCommand(crossConnectionCmd)
}

// crossConnectionSession connects and returns the service with the
// resource group, which is required unless optional is set.
func crossConnectionSession(cmd *cobra.Command, optional bool) (*session, *crossconnect.Service, string, error) {
	sess, err := connect(cmd)
	if err != nil {
		return nil, nil, "", err
	}
	rg := sess.Settings.ResourceGroup
	if !optional {
		if rg, err = requireResourceGroup(sess.Settings); err != nil {
			return nil, nil, "", err
		}
	}
	svc, err := sess.crossConnectService()
	if err != nil {
		return nil, nil, "", err
	}
	return sess, svc, rg, nil
}

func runCrossConnectionList(cmd *cobra.Command, _ []string) error {
	sess, svc, rg, err := crossConnectionSession(cmd, true)
	if err != nil {
		return err
	}
	items, err := svc.List(cmd.Context(), rg)
	if err != nil {
		return err
	}
	return render(sess.Settings, crossConnectionsView(items))
}

func runCrossConnectionShow(cmd *cobra.Command, _ []string) error {
	sess, svc, rg, err := crossConnectionSession(cmd, false)
	if err != nil {
		return err
	}
	cc, err := svc.Show(cmd.Context(), rg, xcName)
	if err != nil {
		return err
	}
	return render(sess.Settings, crossConnectionView{cc})
}

func runCrossConnectionUpdate(cmd *cobra.Command, _ []string) error {
	opts := crossconnect.UpdateOptions{ProvisioningState: xcProvisioningState}
	if cmd.Flags().Changed("notes") {
		opts.Notes = &xcNotes
	}
	if opts.Notes == nil && opts.ProvisioningState == "" {
		return output.NewErrorWithFix("nothing to update", "Pass --notes or --provisioning-state")
	}

	sess, svc, rg, err := crossConnectionSession(cmd, false)
	if err != nil {
		return err
	}
	cc, err := svc.Update(cmd.Context(), rg, xcName, opts)
	if err != nil {
		return err
	}
	return render(sess.Settings, crossConnectionView{cc})
}

func runPeeringList(cmd *cobra.Command, _ []string) error {
	sess, svc, rg, err := crossConnectionSession(cmd, false)
	if err != nil {
		return err
	}
	items, err := svc.ListPeerings(cmd.Context(), rg, xcName)
	if err != nil {
		return err
	}
	return render(sess.Settings, peeringsView(items))
}

func runPeeringShow(cmd *cobra.Command, _ []string) error {
	sess, svc, rg, err := crossConnectionSession(cmd, false)
	if err != nil {
		return err
	}
	p, err := svc.ShowPeering(cmd.Context(), rg, xcName, peeringName)
	if err != nil {
		return err
	}
	return render(sess.Settings, peeringView{p})
}

func runPeeringCreate(cmd *cobra.Command, _ []string) error {
	sess, svc, rg, err := crossConnectionSession(cmd, false)
	if err != nil {
		return err
	}
	p, err := svc.CreatePeering(cmd.Context(), rg, xcName, peeringSpec)
	if err != nil {
		return err
	}
	return render(sess.Settings, peeringView{p})
}

func runPeeringDelete(cmd *cobra.Command, _ []string) error {
	sess, svc, rg, err := crossConnectionSession(cmd, false)
	if err != nil {
		return err
	}
	if err := confirmDelete(sess.Prompter, fmt.Sprintf("peering %q of cross-connection %q", peeringName, xcName)); err != nil {
		return err
	}
	if err := svc.DeletePeering(cmd.Context(), rg, xcName, peeringName); err != nil {
		return err
	}
	output.Success(fmt.Sprintf("Deleted peering %s", peeringName))
	return nil
}
