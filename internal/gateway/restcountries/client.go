package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/country-explorer/internal/apperror"
)

// DefaultBaseURL is the public REST Countries v3.1 endpoint. Tests and
// alternative deployments override it via NewClient.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// Client calls the REST Countries API.
//
// Every method makes exactly one attempt: the provider is either fast or
// down, and the callers' error policy (propagate vs degrade) lives in the
// service layer, not here. The 10s timeout is the only transport policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client for the given base URL ("" means the public
// REST Countries endpoint).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// fetch performs one GET and decodes the response list.
//
// ERROR TRANSLATION:
// The provider answers 404 for "no country matches" — that becomes our
// NotFound with the caller-supplied message. Every other failure
// (transport error, non-200, undecodable body) is an upstream error; the
// provider's response text is carried along so callers can surface it.
func (c *Client) fetch(ctx context.Context, endpoint, notFoundMsg string) ([]Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("restcountries: creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Upstream(fmt.Sprintf("country provider unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NotFound(notFoundMsg)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.Upstream(fmt.Sprintf(
			"country provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var countries []Country
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		return nil, apperror.Upstream(fmt.Sprintf("decoding country provider response: %v", err))
	}

	return countries, nil
}

// All returns every independent country. The full list comes back in one
// response; pagination over it is the caller's concern.
func (c *Client) All(ctx context.Context) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/independent?status=true", "No countries found")
}

// ByName looks up countries by (partial or exact) name.
func (c *Client) ByName(ctx context.Context, name string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/name/"+url.PathEscape(name),
		fmt.Sprintf("Country %q not found", name))
}

// ByRegion returns the countries of a continental region, e.g. "europe".
func (c *Client) ByRegion(ctx context.Context, region string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/region/"+url.PathEscape(region),
		fmt.Sprintf("Region %q not found", region))
}

// ByLanguage returns the countries speaking the given language.
func (c *Client) ByLanguage(ctx context.Context, language string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/lang/"+url.PathEscape(language),
		fmt.Sprintf("Language %q not found", language))
}

// ByCurrency returns the countries using the given currency code or name.
func (c *Client) ByCurrency(ctx context.Context, currency string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/currency/"+url.PathEscape(currency), "Currency not found")
}

// ByDemonym looks countries up by what their citizens are called.
func (c *Client) ByDemonym(ctx context.Context, demonym string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/demonym/"+url.PathEscape(demonym), "Demonym not found")
}

// ByCapital looks countries up by capital city.
func (c *Client) ByCapital(ctx context.Context, capital string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/capital/"+url.PathEscape(capital), "Capital not found")
}

// BySubregion returns the countries of a subregion, e.g. "Northern Europe".
func (c *Client) BySubregion(ctx context.Context, subregion string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/subregion/"+url.PathEscape(subregion),
		fmt.Sprintf("Subregion %q not found", subregion))
}

// ByTranslation looks countries up by a translated name.
func (c *Client) ByTranslation(ctx context.Context, translation string) ([]Country, error) {
	return c.fetch(ctx, c.baseURL+"/translation/"+url.PathEscape(translation),
		fmt.Sprintf("Translation %q not found", translation))
}

// ByCode returns the single country identified by a 2- or 3-letter code.
// The provider answers /alpha/{code} with a one-element list.
func (c *Client) ByCode(ctx context.Context, code string) (*Country, error) {
	countries, err := c.fetch(ctx, c.baseURL+"/alpha/"+url.PathEscape(code), "Country not found")
	if err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, apperror.NotFound("Country not found")
	}
	return &countries[0], nil
}

// ByCodes batch-resolves several codes in one call (/alpha?codes=a,b,c).
// The recently-viewed enrichment depends on this being a single request,
// not a request per stored code.
func (c *Client) ByCodes(ctx context.Context, codes []string) ([]Country, error) {
	if len(codes) == 0 {
		return []Country{}, nil
	}
	query := url.Values{"codes": {strings.Join(codes, ",")}}
	return c.fetch(ctx, c.baseURL+"/alpha?"+query.Encode(), "Countries not found")
}
