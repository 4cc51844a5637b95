// Package kubernetes provides a secret backend storing variables in labelled
// Kubernetes Secrets, one data key per variable.
package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sclient "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/retry"

	"github.com/unifiedui/variables-service/internal/core/secrets"
)

// Config holds kubernetes backend configuration.
type Config struct {
	Namespace  string
	Label      string
	Kubeconfig string
	InCluster  bool
}

// Backend implements secrets.Backend over the CoreV1 Secrets API.
type Backend struct {
	client    k8sclient.Interface
	namespace string
	label     string
}

// NewBackend builds a clientset from the in-cluster environment or a
// kubeconfig file and returns a Backend using it.
func NewBackend(cfg Config) (*Backend, error) {
	var (
		restCfg *rest.Config
		err     error
	)
	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.Kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load kubernetes config: %w", err)
	}

	client, err := k8sclient.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return NewBackendWithClient(client, cfg.Namespace, cfg.Label), nil
}

// NewBackendWithClient creates a Backend over an existing clientset.
func NewBackendWithClient(client k8sclient.Interface, namespace, label string) *Backend {
	return &Backend{
		client:    client,
		namespace: namespace,
		label:     label,
	}
}

func (b *Backend) selector() string {
	return fmt.Sprintf("%s=%s", b.label, secrets.ManagedLabelValue)
}

func (b *Backend) labels() map[string]string {
	return map[string]string{b.label: secrets.ManagedLabelValue}
}

// ListAll returns every secret carrying the managed label.
func (b *Backend) ListAll(ctx context.Context) (map[string]map[string]string, error) {
	list, err := b.client.CoreV1().Secrets(b.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: b.selector(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}

	out := make(map[string]map[string]string, len(list.Items))
	for i := range list.Items {
		out[list.Items[i].Name] = decode(&list.Items[i])
	}
	return out, nil
}

// Get returns one secret.
func (b *Backend) Get(ctx context.Context, name string, failIfAbsent bool) (map[string]string, error) {
	secret, err := b.client.CoreV1().Secrets(b.namespace).Get(ctx, name, metav1.GetOptions{})
	if k8serrors.IsNotFound(err) {
		if failIfAbsent {
			return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
		}
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	return decode(secret), nil
}

// Create creates an empty labelled secret.
func (b *Backend) Create(ctx context.Context, name string) (bool, error) {
	_, err := b.client.CoreV1().Secrets(b.namespace).Create(ctx, b.newSecret(name, nil), metav1.CreateOptions{})
	if k8serrors.IsAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create secret %s: %w", name, err)
	}
	return true, nil
}

// AddEntries appends entries. A missing secret is created when isEmpty is set.
func (b *Backend) AddEntries(ctx context.Context, name string, entries map[string]string, isEmpty bool) (map[string]string, error) {
	data, err := b.modify(ctx, name, func(s *corev1.Secret) {
		for k, v := range entries {
			s.Data[k] = []byte(v)
		}
	})
	if err == nil || !isEmpty || !errors.Is(err, secrets.ErrSecretNotFound) {
		return data, err
	}

	created, err := b.client.CoreV1().Secrets(b.namespace).Create(ctx, b.newSecret(name, entries), metav1.CreateOptions{})
	if k8serrors.IsAlreadyExists(err) {
		// created concurrently by another writer, append instead
		return b.AddEntries(ctx, name, entries, false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create secret %s: %w", name, err)
	}
	return decode(created), nil
}

// UpdateEntries overwrites entries of an existing secret.
func (b *Backend) UpdateEntries(ctx context.Context, name string, entries map[string]string) (map[string]string, error) {
	return b.modify(ctx, name, func(s *corev1.Secret) {
		for k, v := range entries {
			s.Data[k] = []byte(v)
		}
	})
}

// RemoveEntries deletes keys from an existing secret.
func (b *Backend) RemoveEntries(ctx context.Context, name string, keys []string) (map[string]string, error) {
	return b.modify(ctx, name, func(s *corev1.Secret) {
		for _, k := range keys {
			delete(s.Data, k)
		}
	})
}

// RemoveEntriesAsync runs RemoveEntries on its own goroutine.
func (b *Backend) RemoveEntriesAsync(ctx context.Context, name string, keys []string, callback secrets.UpdateCallback) (*secrets.Call, error) {
	if name == "" {
		return nil, fmt.Errorf("secret name is required")
	}
	keys = append([]string(nil), keys...)
	return secrets.RunAsync(ctx, func(ctx context.Context) (map[string]string, error) {
		return b.RemoveEntries(ctx, name, keys)
	}, callback), nil
}

// Template renders the secret manifest with Helm value references.
func (b *Backend) Template(ctx context.Context, name string) ([]byte, error) {
	secret, err := b.client.CoreV1().Secrets(b.namespace).Get(ctx, name, metav1.GetOptions{})
	if k8serrors.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", name, err)
	}

	keys := make([]string, 0, len(secret.Data))
	for k := range secret.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return secrets.RenderTemplate(name, secret.Labels, keys)
}

// Ping checks that the secrets API is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	_, err := b.client.CoreV1().Secrets(b.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: b.selector(),
		Limit:         1,
	})
	if err != nil {
		return fmt.Errorf("failed to reach kubernetes: %w", err)
	}
	return nil
}

// Close is a no-op; the clientset holds no long-lived resources.
func (b *Backend) Close() error {
	return nil
}

// modify applies fn to the current secret and writes it back, retrying on
// resource version conflicts.
func (b *Backend) modify(ctx context.Context, name string, fn func(*corev1.Secret)) (map[string]string, error) {
	var updated *corev1.Secret
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		current, err := b.client.CoreV1().Secrets(b.namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return err
		}
		if current.Data == nil {
			current.Data = make(map[string][]byte)
		}
		fn(current)
		updated, err = b.client.CoreV1().Secrets(b.namespace).Update(ctx, current, metav1.UpdateOptions{})
		return err
	})
	if k8serrors.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", secrets.ErrSecretNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update secret %s: %w", name, err)
	}
	return decode(updated), nil
}

func (b *Backend) newSecret(name string, entries map[string]string) *corev1.Secret {
	data := make(map[string][]byte, len(entries))
	for k, v := range entries {
		data[k] = []byte(v)
	}
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: b.namespace,
			Labels:    b.labels(),
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}
}

func decode(s *corev1.Secret) map[string]string {
	out := make(map[string]string, len(s.Data)+len(s.StringData))
	for k, v := range s.Data {
		out[k] = string(v)
	}
	for k, v := range s.StringData {
		out[k] = v
	}
	return out
}

var _ secrets.Backend = (*Backend)(nil)
