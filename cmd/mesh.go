package cmd

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/meshctl/internal/mesh"
	"github.com/kjourdan1/meshctl/internal/output"
	"github.com/kjourdan1/meshctl/internal/prompt"
	"github.com/kjourdan1/meshctl/internal/template"
)

var (
	meshResourceName string
	meshYes          bool

	volumeTemplateFile string
	volumeTemplateURI  string
	volumeLocation     string
)

func init() {
	appCmd := newMeshGroup(mesh.Applications, "app", "Manage Service Fabric Mesh applications")
	networkCmd := newMeshGroup(mesh.Networks, "network", "Manage Service Fabric Mesh networks")
	volumeCmd := newMeshGroup(mesh.Volumes, "volume", "Manage Service Fabric Mesh volumes")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a volume from a resource document",
		Long: heredoc.Doc(`
			Create a Service Fabric Mesh volume. The volume resource document
			(properties such as the Azure Files share) comes from a local file
			or an HTTPS URI; its location is replaced by --location or the
			configured default location.
		`),
		Example: "  meshctl volume create -g rg-mesh -n data --template-file volume.json --location westus",
		Args:    cobra.NoArgs,
		RunE:    runVolumeCreate,
	}
	createCmd.Flags().StringVarP(&meshResourceName, "name", "n", "", "volume name")
	createCmd.Flags().StringVar(&volumeTemplateFile, "template-file", "", "local path to the volume document")
	createCmd.Flags().StringVar(&volumeTemplateURI, "template-uri", "", "HTTPS URI of the volume document")
	createCmd.Flags().StringVarP(&volumeLocation, "location", "l", "", "Azure region (default: configured location)")
	createCmd.MarkFlagsMutuallyExclusive("template-file", "template-uri")
	_ = createCmd.MarkFlagRequired("name")
	volumeCmd.AddCommand(createCmd)

	rootCmd.AddCommand(appCmd, networkCmd, volumeCmd)
}

// newMeshGroup builds the list/show/delete commands for one mesh resource
// type.
func newMeshGroup(t mesh.ResourceType, use, short string) *cobra.Command {
	group := &cobra.Command{Use: use, Short: short}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s in a resource group or the whole subscription", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := connect(cmd)
			if err != nil {
				return err
			}
			svc, err := sess.meshService()
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), t, sess.Settings.ResourceGroup)
			if err != nil {
				return err
			}
			return render(sess.Settings, resourcesView(items))
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: fmt.Sprintf("Show one of the %s in a resource group", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := connect(cmd)
			if err != nil {
				return err
			}
			rg, err := requireResourceGroup(sess.Settings)
			if err != nil {
				return err
			}
			svc, err := sess.meshService()
			if err != nil {
				return err
			}
			r, err := svc.Show(cmd.Context(), t, rg, meshResourceName)
			if err != nil {
				return err
			}
			return render(sess.Settings, resourceView{r})
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: fmt.Sprintf("Delete one of the %s in a resource group", t),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := connect(cmd)
			if err != nil {
				return err
			}
			rg, err := requireResourceGroup(sess.Settings)
			if err != nil {
				return err
			}
			if err := confirmDelete(sess.Prompter, fmt.Sprintf("%s %q in resource group %q", use, meshResourceName, rg)); err != nil {
				return err
			}
			svc, err := sess.meshService()
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), t, rg, meshResourceName); err != nil {
				return err
			}
			output.Success(fmt.Sprintf("Deleted %s %s", use, meshResourceName))
			return nil
		},
	}

	for _, c := range []*cobra.Command{show, del} {
		c.Flags().StringVarP(&meshResourceName, "name", "n", "", use+" name")
		_ = c.MarkFlagRequired("name")
	}
	del.Flags().BoolVarP(&meshYes, "yes", "y", false, "do not prompt for confirmation")

	group.AddCommand(list, show, del)
	return group
}

// confirmDelete asks before a destructive call unless --yes was given.
func confirmDelete(p Prompter, what string) error {
	if meshYes {
		return nil
	}
	ok, err := p.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", what), false)
	if err != nil {
		if errors.Is(err, prompt.ErrCanceled) {
			return err
		}
		return output.WrapErrorWithFix(err, "cannot confirm deletion", "Pass --yes to delete without prompting")
	}
	if !ok {
		return fmt.Errorf("deletion aborted: %w", prompt.ErrCanceled)
	}
	return nil
}

func runVolumeCreate(cmd *cobra.Command, _ []string) error {
	src := template.Source{File: volumeTemplateFile, URI: volumeTemplateURI}
	if err := src.Validate(); err != nil {
		return err
	}
	sess, err := connect(cmd)
	if err != nil {
		return err
	}
	rg, err := requireResourceGroup(sess.Settings)
	if err != nil {
		return err
	}
	location := volumeLocation
	if location == "" {
		location = sess.Settings.Location
	}
	if location == "" {
		return output.NewErrorWithFix("a location is required", "Pass --location or run: meshctl configure --location <region>")
	}

	doc, err := newLoader(sess.Settings).ReadDocument(cmd.Context(), src)
	if err != nil {
		return err
	}
	svc, err := sess.meshService()
	if err != nil {
		return err
	}
	r, err := svc.CreateVolume(cmd.Context(), rg, meshResourceName, location, doc)
	if err != nil {
		return err
	}
	return render(sess.Settings, resourceView{r})
}
