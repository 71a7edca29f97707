// Command lambda-http serves the HTTP API behind API Gateway (HTTP API,
// payload v2).
//
//	GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"jobassist-backend/internal/bootstrap"
	"jobassist-backend/internal/shared/server/respond"
)

var (
	lazyApp bootstrap.Lazy

	adapterMu sync.Mutex
	adapter   *ginadapter.GinLambdaV2
)

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	app, err := lazyApp.Get(ctx)
	if err != nil {
		return unavailable(), nil
	}

	adapterMu.Lock()
	if adapter == nil {
		adapter = ginadapter.NewV2(app.Router)
	}
	a := adapter
	adapterMu.Unlock()

	return a.ProxyWithContext(ctx, req)
}

// unavailable answers with the API's error envelope so clients can retry.
func unavailable() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{
		Code:    "service_unavailable",
		Message: "service is starting, retry shortly",
	}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Retry-After":  "1",
		},
	}
}

func main() {
	lambda.Start(handler)
}
