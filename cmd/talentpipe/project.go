package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"talentpipe/pkg/models"
	"talentpipe/pkg/ui"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Choose the project profiles are submitted to",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects visible to your account",
	Run:   runProjectList,
}

var projectSelectCmd = &cobra.Command{
	Use:   "select [id or name]",
	Short: "Select the destination project",
	Long: `Select the project that scraped profiles are added to. Without an
argument, pick from a numbered list.`,
	Example: `  talentpipe project select
  talentpipe project select 9be03969-8f3d-4ff8-9afe-23e01380151e
  talentpipe project select "Backend Hires"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runProjectSelect,
}

var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the selected project",
	Run:   runProjectShow,
}

var projectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the selected project",
	Run:   runProjectClear,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectSelectCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectClearCmd)
}

func fetchProjects(cmd *cobra.Command, a *app) []models.Project {
	requireLogin(a)
	projects, err := a.client.Projects(cmd.Context())
	if err != nil {
		fatal("Failed to load projects", err)
	}
	return projects
}

func runProjectList(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})
	projects := fetchProjects(cmd, a)

	if len(projects) == 0 {
		ui.PrintWarning("No projects available")
		return
	}

	selected, _ := a.projects.SelectedProject()
	ui.PrintHighlight("Projects")
	for i, p := range projects {
		marker := " "
		if p.ID == selected.ID {
			marker = "*"
		}
		fmt.Fprintf(ui.Out, "%s %2d. %s %s\n", marker, i+1, p.Name, ui.Dim("("+p.ID.String()+")"))
	}
}

func runProjectSelect(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})
	projects := fetchProjects(cmd, a)
	if len(projects) == 0 {
		fatal("No projects available", nil)
	}

	var project models.Project
	if len(args) == 1 {
		p, ok := findProject(projects, args[0])
		if !ok {
			fatal("Project not found: "+args[0], nil)
		}
		project = p
	} else {
		project = promptProject(projects)
	}

	if err := a.projects.SelectProject(project); err != nil {
		fatal("Failed to save project", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Selected project: %s (%s)", project.Name, project.ID))
}

// findProject matches by id first, then by case-insensitive name
func findProject(projects []models.Project, key string) (models.Project, bool) {
	key = strings.TrimSpace(key)
	for _, p := range projects {
		if p.ID.String() == key {
			return p, true
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, key) {
			return p, true
		}
	}
	return models.Project{}, false
}

func promptProject(projects []models.Project) models.Project {
	fmt.Println("Select a project:")
	for i, p := range projects {
		fmt.Printf("  %d. %s\n", i+1, p.Name)
	}
	fmt.Printf("  0. Cancel\n\n")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || choice < 0 || choice > len(projects) {
		fatal("Invalid choice", nil)
	}
	if choice == 0 {
		os.Exit(0)
	}
	return projects[choice-1]
}

func runProjectShow(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})
	project, err := a.projects.SelectedProject()
	if err != nil {
		fatal("Failed to read selected project", err)
	}
	if project.IsZero() {
		ui.PrintWarning("No project selected")
		return
	}
	ui.PrintInfo("Project", project.Name)
	ui.PrintInfo("ID", project.ID.String())
}

func runProjectClear(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})
	if err := a.projects.ClearProject(); err != nil {
		fatal("Failed to clear project", err)
	}
	ui.PrintSuccess("Project selection cleared")
}
