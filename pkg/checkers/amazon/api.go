package amazon

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"stock-hunter/pkg/models"
)

const amzTarget = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"

type getItemsResponse struct {
	ItemsResult *struct {
		Items []struct {
			ItemInfo struct {
				Title struct {
					DisplayValue string `json:"DisplayValue"`
				} `json:"Title"`
			} `json:"ItemInfo"`
			Offers struct {
				Listings []struct {
					Price struct {
						DisplayAmount string `json:"DisplayAmount"`
					} `json:"Price"`
					Availability struct {
						Message string `json:"Message"`
					} `json:"Availability"`
				} `json:"Listings"`
			} `json:"Offers"`
		} `json:"Items"`
	} `json:"ItemsResult"`
	Errors []struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Errors"`
}

func (c *Checker) checkAPI(product models.Product) (*models.Result, error) {
	if product.ProductID == "" {
		return nil, fmt.Errorf("amazon: %w", models.ErrMissingProductID)
	}

	payload, err := json.Marshal(map[string]any{
		"ItemIds": []string{product.ProductID},
		"Resources": []string{
			"ItemInfo.Title",
			"Offers.Listings.Price",
			"Offers.Listings.Availability.Message",
		},
		"PartnerTag":  c.PartnerTag,
		"PartnerType": "Associates",
		"Marketplace": Marketplace,
	})
	if err != nil {
		return nil, fmt.Errorf("amazon: marshal payload: %w", err)
	}

	endpoint, err := url.Parse(c.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("amazon: parse endpoint: %w", err)
	}

	t := c.Now().UTC()
	amzDate := t.Format("20060102T150405Z")
	dateStamp := t.Format("20060102")

	authorization := buildAuthorization(signingInput{
		Method:      http.MethodPost,
		Host:        endpoint.Host,
		Path:        endpoint.Path,
		Payload:     payload,
		AmzDate:     amzDate,
		DateStamp:   dateStamp,
		Region:      Region,
		Service:     Service,
		AccessKeyID: c.AccessKeyID,
		SecretKey:   c.SecretAccessKey,
	})

	req, err := http.NewRequest(http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("amazon: build request: %w", err)
	}
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Target", amzTarget)
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json, text/javascript")
	req.Host = endpoint.Host

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amazon: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("amazon: %w", models.ErrThrottled)
	}

	var data getItemsResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("amazon: decode response: %w", err)
	}

	for _, apiErr := range data.Errors {
		if apiErr.Code == "TooManyRequests" {
			return nil, fmt.Errorf("amazon: %w", models.ErrThrottled)
		}
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amazon: unexpected status %d", res.StatusCode)
	}
	if data.ItemsResult == nil || len(data.ItemsResult.Items) == 0 {
		return nil, fmt.Errorf("amazon: no items in response: %w", models.ErrOutOfStock)
	}

	item := data.ItemsResult.Items[0]
	result := &models.Result{
		Store: Source,
		Title: item.ItemInfo.Title.DisplayValue,
		Link:  product.Link(),
	}
	if result.Title == "" {
		result.Title = product.Name
	}
	if len(item.Offers.Listings) > 0 {
		result.Price = item.Offers.Listings[0].Price.DisplayAmount
		result.Offers = item.Offers.Listings[0].Availability.Message
	}

	return result, nil
}

type signingInput struct {
	Method      string
	Host        string
	Path        string
	Payload     []byte
	AmzDate     string
	DateStamp   string
	Region      string
	Service     string
	AccessKeyID string
	SecretKey   string
}

// buildAuthorization produces the AWS4-HMAC-SHA256 Authorization header for
// a PAAPI GetItems call. The canonical request covers exactly the four
// headers PAAPI expects to be signed.
func buildAuthorization(in signingInput) string {
	canonicalHeaders := fmt.Sprintf(
		"content-encoding:amz-1.0\nhost:%s\nx-amz-date:%s\nx-amz-target:%s\n",
		in.Host, in.AmzDate, amzTarget,
	)
	signedHeaders := "content-encoding;host;x-amz-date;x-amz-target"

	payloadHash := sha256.Sum256(in.Payload)
	canonicalRequest := strings.Join([]string{
		in.Method,
		in.Path,
		"", // no query string
		canonicalHeaders,
		signedHeaders,
		hex.EncodeToString(payloadHash[:]),
	}, "\n")

	algorithm := "AWS4-HMAC-SHA256"
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", in.DateStamp, in.Region, in.Service)
	requestHash := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		algorithm,
		in.AmzDate,
		credentialScope,
		hex.EncodeToString(requestHash[:]),
	}, "\n")

	signingKey := signatureKey(in.SecretKey, in.DateStamp, in.Region, in.Service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, in.AccessKeyID, credentialScope, signedHeaders, signature)
}

// signatureKey derives the per-day signing key through the SigV4 HMAC
// chain: date, region, service, then the fixed aws4_request terminator.
func signatureKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, "aws4_request")
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}
