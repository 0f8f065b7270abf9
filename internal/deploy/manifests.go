// Package deploy renders the Kubernetes manifests for running the site.
package deploy

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jo-hoe/hoasite/internal/core"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"
)

const (
	appName     = "hoasite"
	dataPath    = "/data"
	redisPort   = 6379
	redisImage  = "redis:7-alpine"
	secretsName = appName + "-secrets"
)

type Options struct {
	Environment string
	Image       string
	Namespace   string
	// Port defaults to the port of the environment.
	Port        int32
	StorageSize string
}

func (o Options) withDefaults() (Options, error) {
	switch o.Environment {
	case core.EnvDev, core.EnvProd:
	case "":
		o.Environment = core.EnvDev
	default:
		return o, fmt.Errorf("unknown environment %q", o.Environment)
	}
	if o.Image == "" {
		o.Image = "ghcr.io/jo-hoe/hoasite:latest"
	}
	if o.Namespace == "" {
		o.Namespace = "default"
	}
	if o.Port == 0 {
		o.Port = core.DefaultDevPort
		if o.Environment == core.EnvProd {
			o.Port = core.DefaultProdPort
		}
	}
	if o.StorageSize == "" {
		o.StorageSize = "1Gi"
	}
	if _, err := resource.ParseQuantity(o.StorageSize); err != nil {
		return o, fmt.Errorf("invalid storage size %q: %w", o.StorageSize, err)
	}
	return o, nil
}

func (o Options) name(suffix string) string {
	return fmt.Sprintf("%s-%s%s", appName, o.Environment, suffix)
}

func (o Options) labels(component string) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":      appName,
		"app.kubernetes.io/instance":  o.name(""),
		"app.kubernetes.io/component": component,
	}
}

func (o Options) meta(suffix, component string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      o.name(suffix),
		Namespace: o.Namespace,
		Labels:    o.labels(component),
	}
}

// Objects builds the objects for one environment. Production adds a redis
// instance for sessions.
func Objects(opts Options) ([]runtime.Object, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	objects := []runtime.Object{
		configMap(opts),
		persistentVolumeClaim(opts),
		webDeployment(opts),
		service(opts, "", "web", opts.Port),
	}
	if opts.Environment == core.EnvProd {
		objects = append(objects, redisDeployment(opts), service(opts, "-redis", "redis", redisPort))
	}
	return objects, nil
}

// Manifests renders Objects as a multi-document YAML stream.
func Manifests(opts Options) ([]byte, error) {
	objects, err := Objects(opts)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	for i, obj := range objects {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal manifest: %w", err)
		}
		if i > 0 {
			b.WriteString("---\n")
		}
		b.Write(data)
	}
	return b.Bytes(), nil
}

func configMap(o Options) *corev1.ConfigMap {
	data := map[string]string{
		"HOA_ENV":                        o.Environment,
		"HOA_PORT":                       strconv.Itoa(int(o.Port)),
		"HOA_DATABASE_CONNECTION_STRING": dataPath + "/hoa.db",
		"HOA_FINANCE_CHECKING_CSV":       dataPath + "/categorized_checking.csv",
		"HOA_FINANCE_SAVINGS_CSV":        dataPath + "/HOA Savings History.csv",
		"HOA_SESSION_STORE":              "memory",
	}
	if o.Environment == core.EnvProd {
		data["HOA_SESSION_STORE"] = "redis"
		data["HOA_SESSION_REDIS_ADDR"] = fmt.Sprintf("%s:%d", o.name("-redis"), redisPort)
		data["HOA_SESSION_COOKIE_SECURE"] = "true"
	}
	return &corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: o.meta("-config", "web"),
		Data:       data,
	}
}

func persistentVolumeClaim(o Options) *corev1.PersistentVolumeClaim {
	return &corev1.PersistentVolumeClaim{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "PersistentVolumeClaim"},
		ObjectMeta: o.meta("-data", "web"),
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(o.StorageSize),
				},
			},
		},
	}
}

func int32Ptr(v int32) *int32 { return &v }

func boolPtr(v bool) *bool { return &v }

// webDeployment runs a single replica: SQLite allows one writer and the
// volume is ReadWriteOnce.
func webDeployment(o Options) *appsv1.Deployment {
	labels := o.labels("web")
	probe := &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{Path: "/probe", Port: intstr.FromInt32(o.Port)},
		},
		PeriodSeconds: 15,
	}
	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: o.meta("", "web"),
		Spec: appsv1.DeploymentSpec{
			Replicas: int32Ptr(1),
			Strategy: appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType},
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  "web",
						Image: o.Image,
						Ports: []corev1.ContainerPort{{Name: "http", ContainerPort: o.Port}},
						EnvFrom: []corev1.EnvFromSource{
							{ConfigMapRef: &corev1.ConfigMapEnvSource{LocalObjectReference: corev1.LocalObjectReference{Name: o.name("-config")}}},
							{SecretRef: &corev1.SecretEnvSource{
								LocalObjectReference: corev1.LocalObjectReference{Name: secretsName},
								Optional:             boolPtr(true),
							}},
						},
						VolumeMounts:   []corev1.VolumeMount{{Name: "data", MountPath: dataPath}},
						LivenessProbe:  probe,
						ReadinessProbe: probe,
						Resources: corev1.ResourceRequirements{
							Requests: corev1.ResourceList{
								corev1.ResourceCPU:    resource.MustParse("50m"),
								corev1.ResourceMemory: resource.MustParse("64Mi"),
							},
							Limits: corev1.ResourceList{
								corev1.ResourceMemory: resource.MustParse("256Mi"),
							},
						},
					}},
					Volumes: []corev1.Volume{{
						Name: "data",
						VolumeSource: corev1.VolumeSource{
							PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: o.name("-data")},
						},
					}},
				},
			},
		},
	}
}

func redisDeployment(o Options) *appsv1.Deployment {
	labels := o.labels("redis")
	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: o.meta("-redis", "redis"),
		Spec: appsv1.DeploymentSpec{
			Replicas: int32Ptr(1),
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  "redis",
						Image: redisImage,
						Ports: []corev1.ContainerPort{{Name: "redis", ContainerPort: redisPort}},
					}},
				},
			},
		},
	}
}

func service(o Options, suffix, component string, port int32) *corev1.Service {
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: o.meta(suffix, component),
		Spec: corev1.ServiceSpec{
			Selector: o.labels(component),
			Ports: []corev1.ServicePort{{
				Port:       port,
				TargetPort: intstr.FromInt32(port),
			}},
		},
	}
}
