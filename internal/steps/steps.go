// internal/steps/steps.go
package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// registerSteps installs the Gherkin vocabulary. Every step binds to one
// page object operation plus an assertion.
func (r *Registrar) registerSteps(sc *godog.ScenarioContext) {
	// Navigation.
	sc.Step(`^I am on the (?:.+ )?homepage$`, r.iAmOnTheHomepage)
	sc.Step(`^I navigate to the contact page$`, r.iNavigateToTheContactPage)

	// Search actions.
	sc.Step(`^I search for "([^"]*)"$`, r.iSearchFor)
	sc.Step(`^I search again for "([^"]*)"$`, r.iSearchAgainFor)
	sc.Step(`^I open the result titled "([^"]*)"$`, r.iOpenTheResultTitled)
	sc.Step(`^I open result number (\d+)$`, r.iOpenResultNumber)

	// Search assertions.
	sc.Step(`^search results should be displayed$`, r.searchResultsShouldBeDisplayed)
	sc.Step(`^the results should contain "([^"]*)"$`, r.theResultsShouldContain)
	sc.Step(`^no search results should be found$`, r.noSearchResultsShouldBeFound)
	sc.Step(`^the search results header should mention "([^"]*)"$`, r.theResultsHeaderShouldMention)

	// Homepage assertions.
	sc.Step(`^the homepage should be displayed$`, r.theHomepageShouldBeDisplayed)
	sc.Step(`^the page title should contain "([^"]*)"$`, r.thePageTitleShouldContain)
	sc.Step(`^the site header should be visible$`, r.theSiteHeaderShouldBeVisible)
	sc.Step(`^the header should display "([^"]*)"$`, r.theHeaderShouldDisplay)
	sc.Step(`^I should see recent blog posts$`, r.iShouldSeeRecentBlogPosts)
	sc.Step(`^there should be at least (\d+) posts? displayed$`, r.thereShouldBeAtLeastNPosts)

	// Contact page assertions.
	sc.Step(`^the contact page should be displayed$`, r.theContactPageShouldBeDisplayed)
	sc.Step(`^the contact form should have an? "([^"]*)" field$`, r.theContactFormShouldHaveField)
}

func (r *Registrar) iAmOnTheHomepage(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	return state.home.Open(ctx)
}

func (r *Registrar) iNavigateToTheContactPage(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	return state.contact.Open(ctx)
}

func (r *Registrar) iSearchFor(ctx context.Context, phrase string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	state.searchPhrase = phrase
	return state.home.Search(ctx, phrase)
}

func (r *Registrar) iSearchAgainFor(ctx context.Context, phrase string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	state.searchPhrase = phrase
	return state.results.SearchAgain(ctx, phrase)
}

func (r *Registrar) iOpenTheResultTitled(ctx context.Context, title string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	return state.results.ClickResultByTitle(ctx, title)
}

func (r *Registrar) iOpenResultNumber(ctx context.Context, number int) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	if number < 1 {
		return fmt.Errorf("result numbers start at 1, got %d", number)
	}
	return state.results.ClickResultByIndex(ctx, number-1)
}

func (r *Registrar) searchResultsShouldBeDisplayed(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	if !state.results.HasResults(ctx) {
		return fmt.Errorf("expected search results for %q, but none were displayed", state.searchPhrase)
	}
	return nil
}

func (r *Registrar) theResultsShouldContain(ctx context.Context, keyword string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	ok, err := state.results.ContainsKeyword(ctx, keyword)
	if err != nil {
		return err
	}
	if !ok {
		titles, _ := state.results.Titles(ctx)
		return fmt.Errorf("no result title contains %q (saw: %s)", keyword, strings.Join(titles, "; "))
	}
	return nil
}

func (r *Registrar) noSearchResultsShouldBeFound(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	empty, err := state.results.HasNoResults(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return fmt.Errorf("expected no results for %q, but results were displayed", state.searchPhrase)
	}
	return nil
}

func (r *Registrar) theResultsHeaderShouldMention(ctx context.Context, phrase string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	ok, err := state.results.HeaderMentions(ctx, phrase)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("results header does not mention %q", phrase)
	}
	return nil
}

func (r *Registrar) theHomepageShouldBeDisplayed(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	if !state.home.IsLoaded(ctx) {
		return fmt.Errorf("homepage did not load: title or main content missing")
	}
	return nil
}

func (r *Registrar) thePageTitleShouldContain(ctx context.Context, text string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	title, err := state.home.Title(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(title), strings.ToLower(text)) {
		return fmt.Errorf("page title %q does not contain %q", title, text)
	}
	return nil
}

func (r *Registrar) theSiteHeaderShouldBeVisible(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	if !state.home.HeaderVisible(ctx) {
		return fmt.Errorf("site header is not visible")
	}
	return nil
}

func (r *Registrar) theHeaderShouldDisplay(ctx context.Context, text string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	headerText, err := state.home.SiteTitleText(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(headerText), strings.ToLower(text)) {
		return fmt.Errorf("header shows %q, expected it to display %q", headerText, text)
	}
	return nil
}

func (r *Registrar) iShouldSeeRecentBlogPosts(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	titles, err := state.home.PostTitles(ctx)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("no blog posts are displayed")
	}
	return nil
}

func (r *Registrar) thereShouldBeAtLeastNPosts(ctx context.Context, minimum int) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	count, err := state.home.PostCount(ctx)
	if err != nil {
		return err
	}
	if count < minimum {
		return fmt.Errorf("expected at least %d posts, found %d", minimum, count)
	}
	return nil
}

func (r *Registrar) theContactPageShouldBeDisplayed(ctx context.Context) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	if !state.contact.IsLoaded(ctx) {
		return fmt.Errorf("contact page did not load")
	}
	return nil
}

func (r *Registrar) theContactFormShouldHaveField(ctx context.Context, field string) error {
	state, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	ok, err := state.contact.HasField(ctx, field)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("contact form field %q is not visible", field)
	}
	return nil
}
